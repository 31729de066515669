package report

import (
	"errors"
	"testing"

	"railticket-exporter/internal/extract"
	"railticket-exporter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ownerRecord(date, clock, train string) models.TicketRecord {
	return models.TicketRecord{
		models.FieldDepartureDate: date,
		models.FieldDepartureTime: clock,
		models.FieldTrainNumber:   train,
		models.FieldPassenger:     "张三",
		models.FieldOwnerMatch:    models.OwnerYes,
		models.FieldStatus:        models.StatusValid,
	}
}

func TestAggregate_SortsChronologically(t *testing.T) {
	entries := []models.Entry{
		{Record: ownerRecord("2025年05月05日", "16:20", "G7347"), Subject: "购票成功通知", TraceID: "r1"},
		{Record: ownerRecord("2025年04月17日", "10:01", "G1478"), Subject: "购票成功通知", TraceID: "r2"},
	}

	table, err := Aggregate(entries, Options{SourceTag: "12306"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "G1478", table.Rows[0].Value(models.FieldTrainNumber))
	assert.Equal(t, "G7347", table.Rows[1].Value(models.FieldTrainNumber))
}

func TestAggregate_SameDaySortedByTime(t *testing.T) {
	entries := []models.Entry{
		{Record: ownerRecord("2025年05月05日", "16:20", "late")},
		{Record: ownerRecord("2025年5月5日", "8:05", "early")},
		{Record: ownerRecord("2025年05月05日", "16:20", "late-second")},
	}

	table, err := Aggregate(entries, Options{SourceTag: "12306"})
	require.NoError(t, err)

	var trains []string
	for _, row := range table.Rows {
		trains = append(trains, row.Value(models.FieldTrainNumber))
	}
	assert.Equal(t, []string{"early", "late", "late-second"}, trains)
}

func TestAggregate_NormalizesDateAndTime(t *testing.T) {
	entries := []models.Entry{
		{Record: ownerRecord("2025年5月6日", "8:05", "D1")},
	}

	table, err := Aggregate(entries, Options{SourceTag: "12306"})
	require.NoError(t, err)

	row := table.Rows[0]
	assert.Equal(t, "2025年05月06日", row.Value(models.FieldDepartureDate))
	assert.Equal(t, "08:05", row.Value(models.FieldDepartureTime))
}

func TestAggregate_AnnotatesSubjectSourceAndStatus(t *testing.T) {
	bodyRefund := ownerRecord("2025年04月17日", "10:01", "G1")
	bodyRefund.Set(models.FieldStatus, models.StatusRefunded)

	entries := []models.Entry{
		{Record: ownerRecord("2025年04月15日", "10:01", "G2"), Subject: "退票成功通知"},
		{Record: ownerRecord("2025年04月16日", "10:01", "G3"), Subject: "购票成功通知"},
		{Record: bodyRefund, Subject: "购票成功通知"},
	}

	table, err := Aggregate(entries, Options{SourceTag: "12306"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, models.StatusRefunded, table.Rows[0].Value(models.FieldStatus))
	assert.Equal(t, models.StatusValid, table.Rows[1].Value(models.FieldStatus))
	assert.Equal(t, models.StatusRefunded, table.Rows[2].Value(models.FieldStatus))

	for _, row := range table.Rows {
		assert.Equal(t, "12306", row.Value(models.FieldSource))
	}
	assert.Equal(t, "退票成功通知", table.Rows[0].Value(models.FieldSubject))
}

func TestAggregate_FiltersNonOwner(t *testing.T) {
	other := ownerRecord("not a date", "16:20", "G9")
	other.Set(models.FieldOwnerMatch, models.OwnerNo)

	entries := []models.Entry{
		{Record: other},
		{Record: ownerRecord("2025年04月17日", "10:01", "G1")},
	}

	table, err := Aggregate(entries, Options{SourceTag: "12306"})
	require.NoError(t, err, "non-owner rows are dropped before date parsing")
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "G1", table.Rows[0].Value(models.FieldTrainNumber))
}

func TestAggregate_DropsEmptyRecordsFirst(t *testing.T) {
	// no extracted fields at all, so it must never reach date parsing
	empty := models.TicketRecord{
		models.FieldOwnerMatch: models.OwnerYes,
		models.FieldStatus:     models.StatusValid,
	}

	entries := []models.Entry{
		{Record: empty, Subject: "购票成功通知"},
		{Record: ownerRecord("2025年04月17日", "10:01", "G1")},
	}

	table, err := Aggregate(entries, Options{SourceTag: "12306"})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestAggregate_DateParseErrorIsFatal(t *testing.T) {
	bad := ownerRecord("2025/04/17", "10:01", "G1")
	bad.Set(models.FieldOrderID, "E123456789")

	entries := []models.Entry{
		{Record: ownerRecord("2025年04月16日", "10:01", "G0")},
		{Record: bad, Subject: "购票成功通知", TraceID: "trace-bad"},
	}

	table, err := Aggregate(entries, Options{SourceTag: "12306"})
	assert.Nil(t, table)

	var dateErr *DateParseError
	require.True(t, errors.As(err, &dateErr), "expected DateParseError, got %v", err)
	assert.Equal(t, "trace-bad", dateErr.TraceID)
	assert.Equal(t, "E123456789", dateErr.OrderID)
	assert.Equal(t, models.FieldDepartureDate, dateErr.Field)
	assert.Equal(t, "2025/04/17", dateErr.Value)
	assert.Contains(t, err.Error(), "trace-bad")
}

func TestAggregate_MissingTimeIsFatal(t *testing.T) {
	rec := ownerRecord("2025年04月16日", "", "G0")
	rec.Unset(models.FieldDepartureTime)

	_, err := Aggregate([]models.Entry{{Record: rec}}, Options{SourceTag: "12306"})

	var dateErr *DateParseError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, models.FieldDepartureTime, dateErr.Field)
}

func TestAggregate_NothingToExport(t *testing.T) {
	other := ownerRecord("2025年04月16日", "10:01", "G0")
	other.Set(models.FieldOwnerMatch, models.OwnerNo)

	_, err := Aggregate([]models.Entry{{Record: other}}, Options{SourceTag: "12306"})
	assert.ErrorIs(t, err, ErrNothingToExport)

	_, err = Aggregate(nil, Options{SourceTag: "12306"})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	rec := ownerRecord("2025年5月6日", "8:05", "D1")

	_, err := Aggregate([]models.Entry{{Record: rec, Subject: "退票成功通知"}}, Options{SourceTag: "12306"})
	require.NoError(t, err)

	assert.Equal(t, "2025年5月6日", rec.Value(models.FieldDepartureDate))
	assert.Equal(t, models.StatusValid, rec.Value(models.FieldStatus))
	assert.False(t, rec.Has(models.FieldSubject))
}

func TestAggregate_EndToEnd(t *testing.T) {
	body := "您好！您于2025年05月05日在中国铁路客户服务中心网站(12306.cn) 成功购买了1张车票，票款共计23.50元，订单号码E123456789。" +
		"1.张三，2025年05月05日16:20开，金华南站-缙云西站，G7347次列车，6车13C号，二等座，成人票，票价23.5元，电子客票。"
	record := extract.New("张三").Extract(body)

	table, err := Aggregate([]models.Entry{{Record: record, Subject: "购票成功通知"}}, Options{SourceTag: "12306"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	assert.Equal(t, Columns, table.Columns)

	var got []string
	for _, col := range table.Columns {
		got = append(got, table.Rows[0].Value(col))
	}
	assert.Equal(t, []string{
		"2025年05月05日", "16:20", "金华南站", "缙云西站", "G7347",
		"6车13C号", "6车", "13C号", "二等座", "23.5",
		"购票成功通知", "E123456789", "2025年05月05日", models.StatusValid, "12306",
	}, got)
}
