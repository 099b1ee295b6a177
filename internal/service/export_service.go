package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"card-ledger/internal/models"
	"card-ledger/internal/schedule"
)

// ExportSvc is an implementation of the service.ExportService interface
type ExportSvc struct {
	projection *ProjectionSvc
	logger     *logrus.Logger
	now        func() time.Time
}

// NewExportService creates a new ExportSvc on top of the projection service
func NewExportService(deps Dependencies, projection *ProjectionSvc) *ExportSvc {
	return &ExportSvc{
		projection: projection,
		logger:     deps.Logger,
		now:        deps.clock(),
	}
}

// ProjectionXML renders a card's projection as an XML statement
func (s *ExportSvc) ProjectionXML(ctx context.Context, userID, cardID, months int) ([]byte, error) {
	if months == 0 {
		months = schedule.DefaultMonths
	}
	if months < 0 || months > MaxProjectionMonths {
		return nil, fmt.Errorf("%w: months must be between 1 and %d", ErrValidation, MaxProjectionMonths)
	}

	ledger, err := s.projection.loadLedger(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	buckets, err := s.projection.buckets(ctx, userID, ledger, months)
	if err != nil {
		return nil, err
	}

	freedom, err := s.projection.freedomDate(ctx, userID, ledger)
	if err != nil {
		return nil, err
	}

	doc := buildProjectionDocument(ledger.card, buckets, freedom, s.now())
	doc.Indent(2)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render projection: %w", err)
	}

	s.logger.Infof("Projection exported for card %d (%d months)", ledger.card.ID, months)

	return out, nil
}

func buildProjectionDocument(card *models.CreditCard, buckets []schedule.MonthBucket, freedom *string, generatedAt time.Time) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("projection")
	root.CreateAttr("generated_at", models.FormatTimestamp(generatedAt))
	root.CreateAttr("months", strconv.Itoa(len(buckets)))

	cardElem := root.CreateElement("card")
	cardElem.CreateAttr("id", strconv.Itoa(card.ID))
	cardElem.CreateAttr("bank", card.Bank)
	cardElem.CreateAttr("limit", strconv.FormatInt(card.Limit, 10))
	cardElem.CreateAttr("closing_day", strconv.Itoa(card.ClosingDay))
	cardElem.CreateAttr("due_day", strconv.Itoa(card.DueDay))

	var total int64
	for idx, bucket := range buckets {
		month := root.CreateElement("month")
		month.CreateAttr("index", strconv.Itoa(idx))
		month.CreateAttr("label", bucket.Label)
		month.CreateAttr("period", bucket.Month.Format("2006-01"))
		month.CreateAttr("total", strconv.FormatInt(bucket.Total, 10))

		for _, due := range bucket.DueDates {
			month.CreateElement("dueDate").SetText(models.FormatTimestamp(due))
		}
		total += bucket.Total
	}

	root.CreateElement("total").SetText(strconv.FormatInt(total, 10))

	freedomElem := root.CreateElement("freedomDate")
	if freedom != nil {
		freedomElem.SetText(*freedom)
	} else {
		freedomElem.CreateAttr("nil", "true")
	}

	return doc
}
