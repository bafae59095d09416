package services

import (
	"context"
	"fmt"
	"time"

	"github.com/crashph/crash-server/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// MessageService handles the per-report conversation threads between
// citizens and police. Sender and receiver ids are opaque: the sender
// type tag decides which account table they refer to.
type MessageService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewMessageService creates a new message service
func NewMessageService(db *pgxpool.Pool, logger *zap.SugaredLogger) *MessageService {
	return &MessageService{db: db, logger: logger}
}

// ListByReport returns a report's thread in ascending time order.
// Returns ErrNotFound when the parent report does not exist.
func (s *MessageService) ListByReport(ctx context.Context, reportID uuid.UUID) ([]models.Message, error) {
	if err := s.reportExists(ctx, reportID); err != nil {
		return nil, err
	}

	query := `
		SELECT message_id, report_id, sender_id, sender_type, receiver_id, message_content, timestamp
		FROM tbl_messages
		WHERE report_id = $1
		ORDER BY timestamp ASC
	`
	rows, err := s.db.Query(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ReportID, &m.SenderID, &m.SenderType,
			&m.ReceiverID, &m.Content, &m.Timestamp); err != nil {
			continue
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Create appends a message to a report's thread.
func (s *MessageService) Create(ctx context.Context, reportID uuid.UUID, req *models.MessageCreate) (*models.Message, error) {
	if err := s.reportExists(ctx, reportID); err != nil {
		return nil, err
	}

	if req.SenderType != models.SenderCitizen && req.SenderType != models.SenderPolice {
		return nil, fmt.Errorf("invalid sender_type %q", req.SenderType)
	}

	senderID, err := uuid.Parse(req.SenderID)
	if err != nil {
		return nil, fmt.Errorf("invalid sender_id: %w", err)
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("invalid receiver_id: %w", err)
	}

	msg := &models.Message{
		ID:         uuid.New(),
		ReportID:   reportID,
		SenderID:   senderID,
		SenderType: req.SenderType,
		ReceiverID: receiverID,
		Content:    req.Content,
		Timestamp:  time.Now(),
	}

	query := `
		INSERT INTO tbl_messages (message_id, report_id, sender_id, sender_type, receiver_id, message_content, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.Exec(ctx, query,
		msg.ID, msg.ReportID, msg.SenderID, msg.SenderType, msg.ReceiverID, msg.Content, msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	return msg, nil
}

// Update edits a message's content in place. The message must belong to
// the given report; anything else is ErrNotFound.
func (s *MessageService) Update(ctx context.Context, reportID, messageID uuid.UUID, req *models.MessageUpdate) (*models.Message, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE tbl_messages SET message_content = $1 WHERE message_id = $2 AND report_id = $3`,
		req.Content, messageID, reportID)
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	var m models.Message
	err = s.db.QueryRow(ctx,
		`SELECT message_id, report_id, sender_id, sender_type, receiver_id, message_content, timestamp
		 FROM tbl_messages WHERE message_id = $1`, messageID).
		Scan(&m.ID, &m.ReportID, &m.SenderID, &m.SenderType, &m.ReceiverID, &m.Content, &m.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("fetch message: %w", err)
	}
	return &m, nil
}

func (s *MessageService) reportExists(ctx context.Context, reportID uuid.UUID) error {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tbl_reports WHERE report_id = $1)`, reportID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("lookup report: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}
