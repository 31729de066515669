package models

// Field names a ticket attribute. The value doubles as the report column header.
type Field string

const (
	FieldPurchaseDate  Field = "购票日期"
	FieldDepartureDate Field = "发车日期"
	FieldDepartureTime Field = "发车时间"
	FieldTrainNumber   Field = "车次"
	FieldOrigin        Field = "出发站"
	FieldDestination   Field = "到达站"
	FieldCarriage      Field = "车厢号"
	FieldSeatNumber    Field = "座位号"
	FieldSeat          Field = "座位"
	FieldSeatClass     Field = "座位等级"
	FieldFare          Field = "票价"
	FieldOrderID       Field = "订单号"
	FieldPassenger     Field = "乘客姓名"
	FieldOwnerMatch    Field = "本人车票"
	FieldStatus        Field = "状态"
	FieldSubject       Field = "主题"
	FieldSource        Field = "订单来源"
)

// Flag and status values as they appear in the report
const (
	OwnerYes = "是"
	OwnerNo  = "否"

	StatusValid    = "有效"
	StatusRefunded = "已退"

	NoSeat = "无座"
)

// ExtractedFields lists the fields that come from the message body itself.
// Flags and metadata (owner match, status, subject, source) are derived and always set.
var ExtractedFields = []Field{
	FieldPurchaseDate,
	FieldDepartureDate,
	FieldDepartureTime,
	FieldTrainNumber,
	FieldOrigin,
	FieldDestination,
	FieldCarriage,
	FieldSeatNumber,
	FieldSeat,
	FieldSeatClass,
	FieldFare,
	FieldOrderID,
	FieldPassenger,
}

// TicketRecord maps a field to its value. A missing key means the field is absent,
// which is not the same as a present empty string.
type TicketRecord map[Field]string

// Get returns the value of f and whether it is present
func (r TicketRecord) Get(f Field) (string, bool) {
	v, ok := r[f]
	return v, ok
}

// Value returns the value of f, or "" when absent
func (r TicketRecord) Value(f Field) string {
	return r[f]
}

func (r TicketRecord) Has(f Field) bool {
	_, ok := r[f]
	return ok
}

func (r TicketRecord) Set(f Field, v string) {
	r[f] = v
}

// Unset marks f as absent
func (r TicketRecord) Unset(f Field) {
	delete(r, f)
}

// Clone returns an independent copy of the record
func (r TicketRecord) Clone() TicketRecord {
	c := make(TicketRecord, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// IsEmpty reports whether every extracted field is absent
func (r TicketRecord) IsEmpty() bool {
	for _, f := range ExtractedFields {
		if r.Has(f) {
			return false
		}
	}
	return true
}

// Entry is one accepted message on its way to the aggregator
type Entry struct {
	Record  TicketRecord
	Subject string // display subject
	TraceID string
}
