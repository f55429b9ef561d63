package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/snappy"
	auditdomain "github.com/greentruckerlabs/greentrucker/internal/audit/domain"
)

func (s *Service) Export(ctx context.Context, req auditdomain.ExportRequest) (*auditdomain.ExportResult, error) {
	query := s.db.WithContext(ctx).Model(&auditdomain.AuditLog{}).
		Where("created_at >= ? AND created_at < ?", req.StartDate, req.EndDate)
	if len(req.Actions) > 0 {
		query = query.Where("action IN ?", req.Actions)
	}

	var logs []auditdomain.AuditLog
	if err := query.Order("created_at ASC").Find(&logs).Error; err != nil {
		return nil, err
	}

	var data []byte
	var err error
	switch req.Format {
	case auditdomain.ExportFormatCSV:
		data, err = formatCSV(logs)
	case auditdomain.ExportFormatJSON:
		data, err = formatJSON(logs)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", req.Format)
	}
	if err != nil {
		return nil, err
	}

	if req.Compress {
		data = snappy.Encode(nil, data)
	}

	checksum := sha256.Sum256(data)
	return &auditdomain.ExportResult{
		Data:       data,
		Checksum:   hex.EncodeToString(checksum[:]),
		Format:     req.Format,
		Count:      len(logs),
		Compressed: req.Compress,
	}, nil
}

func formatCSV(logs []auditdomain.AuditLog) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"timestamp", "actor", "action", "target_type", "target_id", "detail"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range logs {
		detailJSON, _ := json.Marshal(row.Detail)
		targetID := ""
		if row.TargetID != nil {
			targetID = *row.TargetID
		}
		record := []string{
			row.CreatedAt.Format(time.RFC3339),
			row.Actor,
			row.Action,
			row.TargetType,
			targetID,
			string(detailJSON),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatJSON(logs []auditdomain.AuditLog) ([]byte, error) {
	type exportRecord struct {
		Timestamp  string         `json:"timestamp"`
		Actor      string         `json:"actor"`
		Action     string         `json:"action"`
		TargetType string         `json:"target_type"`
		TargetID   string         `json:"target_id,omitempty"`
		Detail     map[string]any `json:"detail,omitempty"`
	}

	records := make([]exportRecord, 0, len(logs))
	for _, row := range logs {
		targetID := ""
		if row.TargetID != nil {
			targetID = *row.TargetID
		}
		records = append(records, exportRecord{
			Timestamp:  row.CreatedAt.Format(time.RFC3339),
			Actor:      row.Actor,
			Action:     row.Action,
			TargetType: row.TargetType,
			TargetID:   targetID,
			Detail:     row.Detail,
		})
	}
	return json.MarshalIndent(records, "", "  ")
}
