package extract

import (
	"regexp"

	"railticket-exporter/internal/models"
)

// rule captures one or more fields from the body. Capture group i+1 feeds fields[i].
type rule struct {
	fields  []models.Field
	pattern *regexp.Regexp
	upper   bool
}

// word mirrors a Unicode-aware \w, so CJK station names count as word characters
const word = `[\p{L}\p{M}\p{N}_]`

// Rules run in this order. Each is searched independently against the whole body
// and the first match wins.
var baseRules = []rule{
	{
		fields:  []models.Field{models.FieldPurchaseDate},
		pattern: regexp.MustCompile(`(?i)您于(\d{4}年\d{1,2}月\d{1,2}日)在中国铁路客户服务中心网站`),
	},
	{
		fields:  []models.Field{models.FieldDepartureDate, models.FieldDepartureTime},
		pattern: regexp.MustCompile(`(?i)(\d{4}年\d{1,2}月\d{1,2}日)(\d{1,2}:\d{2})开`),
	},
	{
		fields:  []models.Field{models.FieldTrainNumber},
		pattern: regexp.MustCompile(`(?i)([A-Z]?\d{1,4})(?:次|次列车|车次|$)`),
		upper:   true,
	},
	{
		fields:  []models.Field{models.FieldOrigin},
		pattern: regexp.MustCompile(`(?i)(` + word + `+站)[—\-]`),
	},
	{
		fields:  []models.Field{models.FieldDestination},
		pattern: regexp.MustCompile(`(?i)[—\-](` + word + `+站)`),
	},
	{
		// the trailing seat token keeps "6车" from being read as a seat
		fields:  []models.Field{models.FieldCarriage},
		pattern: regexp.MustCompile(`(?i)(\d+[A-Z]?车)(?:无座|\d+[A-Z]?号)`),
		upper:   true,
	},
	{
		fields:  []models.Field{models.FieldSeatNumber},
		pattern: regexp.MustCompile(`(?i)\d+[A-Z]?车(\d+[A-Z]?号|无座)`),
		upper:   true,
	},
	{
		fields:  []models.Field{models.FieldSeatClass},
		pattern: regexp.MustCompile(`(?i)(?:^|[\s，,])([一二]等座|商务座|特等座|硬[卧座]|软[卧座]|硬卧[上中下]铺|软卧[上下]铺|无座)(?:$|[\s，。])`),
	},
	{
		fields:  []models.Field{models.FieldFare},
		pattern: regexp.MustCompile(`(?i)(?:票价|票款|金额|应付金额)(?:\s*[:：]|\s+)?(\d+\.?\d{0,2})元`),
	},
	{
		fields:  []models.Field{models.FieldOrderID},
		pattern: regexp.MustCompile(`(?i)订单号码\s*([A-Z0-9]{8,})`),
		upper:   true,
	},
}

// passengerRule anchors the target name on the date that follows it in the ticket line.
// It is an identity check, not a general name matcher.
func passengerRule(name string) rule {
	return rule{
		fields:  []models.Field{models.FieldPassenger},
		pattern: regexp.MustCompile(`(?i)(` + regexp.QuoteMeta(name) + `)，\d{4}年\d{1,2}月\d{1,2}日`),
	}
}

var (
	carriageNoSeatPattern = regexp.MustCompile(`(\d+车)无座`)
	refundPattern         = regexp.MustCompile(`退票成功|已退票|退单`)
	orderCreatedPattern   = regexp.MustCompile(`订单生成时间[:：]\s*(\d{4})-(\d{2})-(\d{2})`)
)
