package repository

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// ContactRepository implements ContactRepository interface using GORM
type ContactRepository struct {
	db     *gorm.DB
	logger coreport.Logger
	errors dbErrorHandler
}

// NewContactRepository creates a new ContactRepository instance
func NewContactRepository(db *gorm.DB, logger coreport.Logger) *ContactRepository {
	return &ContactRepository{
		db:     db,
		logger: logger,
		errors: dbErrorHandler{logger: logger, classifier: NewErrorClassifier()},
	}
}

func (r *ContactRepository) handleDatabaseError(operation string, err error, id uint64) error {
	return r.errors.handle(operation, err, errs.ErrContactNotFound, errs.ErrDuplicateEntry, map[string]any{
		"contact_id": id,
	})
}

func contactToEntity(m *model.ContactMessage) *entity.ContactMessage {
	return &entity.ContactMessage{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Subject:     m.Subject,
		Body:        m.Body,
		Status:      entity.ContactStatus(m.Status),
		Response:    m.Response,
		UserID:      m.UserID,
		RespondedAt: m.RespondedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Create saves a new message and sets its ID
func (r *ContactRepository) Create(ctx context.Context, message *entity.ContactMessage) error {
	m := model.ContactMessage{
		Name:      message.Name,
		Email:     message.Email,
		Subject:   message.Subject,
		Body:      message.Body,
		Status:    string(message.Status),
		UserID:    message.UserID,
		CreatedAt: message.CreatedAt,
		UpdatedAt: message.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating contact message", err, 0)
	}
	message.ID = m.ID

	r.logger.Info("Contact message stored", map[string]any{
		"contact_id": message.ID,
		"email":      message.Email,
	})
	return nil
}

// GetByID retrieves a message
func (r *ContactRepository) GetByID(ctx context.Context, id uint64) (*entity.ContactMessage, error) {
	var m model.ContactMessage
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting contact message", err, id)
	}
	return contactToEntity(&m), nil
}

// Update saves the status and response of a message
func (r *ContactRepository) Update(ctx context.Context, message *entity.ContactMessage) error {
	result := r.db.WithContext(ctx).Model(&model.ContactMessage{}).
		Where("id = ?", message.ID).
		Updates(map[string]any{
			"status":       string(message.Status),
			"response":     message.Response,
			"responded_at": message.RespondedAt,
			"updated_at":   message.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating contact message", result.Error, message.ID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrContactNotFound
	}

	r.logger.Info("Contact message updated", map[string]any{
		"contact_id": message.ID,
		"status":     message.Status,
	})
	return nil
}

// List returns a page of messages, newest first, and the total match count
func (r *ContactRepository) List(ctx context.Context, filter persistence.ContactFilter) ([]*entity.ContactMessage, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ContactMessage{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDatabaseError("counting contact messages", err, 0)
	}

	var models []model.ContactMessage
	if err := paginate(query, filter.Page).Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		return nil, 0, r.handleDatabaseError("listing contact messages", err, 0)
	}

	messages := make([]*entity.ContactMessage, 0, len(models))
	for i := range models {
		messages = append(messages, contactToEntity(&models[i]))
	}
	return messages, total, nil
}

// CountByStatus counts messages in a status
func (r *ContactRepository) CountByStatus(ctx context.Context, status entity.ContactStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ContactMessage{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	if err != nil {
		return 0, r.handleDatabaseError("counting contact messages by status", err, 0)
	}
	return count, nil
}
