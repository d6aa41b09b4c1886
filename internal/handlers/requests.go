package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"acmeledger/internal/common"
	"acmeledger/internal/models"
)

// AmountText accepts a JSON string or number and keeps its textual form.
type AmountText string

func (a *AmountText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("advance must be a string or a number")
	}
	*a = AmountText(n.String())
	return nil
}

// RecordRequest is the JSON form of a company record.
type RecordRequest struct {
	Date        string     `json:"date"`
	InvoiceNo   string     `json:"invoiceNo"`
	ContainerNo string     `json:"containerNo"`
	Product     string     `json:"product"`
	Advance     AmountText `json:"advance"`
}

func (r RecordRequest) toModel(field string) (models.Record, error) {
	date, err := common.ParseDateParam(r.Date, field+"date", false)
	if err != nil {
		return models.Record{}, err
	}
	rec := models.Record{
		InvoiceNo:   strings.TrimSpace(r.InvoiceNo),
		ContainerNo: strings.TrimSpace(r.ContainerNo),
		Product:     strings.TrimSpace(r.Product),
		Advance:     strings.TrimSpace(string(r.Advance)),
	}
	if date != nil {
		rec.Date = *date
	}
	return rec, nil
}

func recordsToModels(in []RecordRequest) ([]models.Record, error) {
	out := make([]models.Record, 0, len(in))
	for i, r := range in {
		rec, err := r.toModel(fmt.Sprintf("records[%d].", i))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// RecordPatchRequest carries the record fields to overwrite. Absent fields keep their values.
type RecordPatchRequest struct {
	Date        *string     `json:"date"`
	InvoiceNo   *string     `json:"invoiceNo"`
	ContainerNo *string     `json:"containerNo"`
	Product     *string     `json:"product"`
	Advance     *AmountText `json:"advance"`
}

func (r RecordPatchRequest) toModel() (models.RecordPatch, error) {
	patch := models.RecordPatch{
		InvoiceNo:   r.InvoiceNo,
		ContainerNo: r.ContainerNo,
		Product:     r.Product,
	}
	if r.Advance != nil {
		s := string(*r.Advance)
		patch.Advance = &s
	}
	if r.Date != nil {
		date, err := common.ParseDateParam(*r.Date, "date", false)
		if err != nil {
			return patch, err
		}
		patch.Date = date
	}
	return patch, nil
}

func optionalDate(value *string, field string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	return common.ParseDateParam(*value, field, false)
}
