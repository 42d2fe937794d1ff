package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
)

// ErrNotificationNotFound indicates no notification matches the given id
var ErrNotificationNotFound = fmt.Errorf("notification not found")

// NotificationRepository handles in-app notification database operations
type NotificationRepository struct {
	db DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores a new unread notification for an employee
func (r *NotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO notifications (id, employee_id, message, read, created_at) VALUES ($1, $2, $3, false, $4)`,
		notification.ID, notification.EmployeeID, notification.Message, notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListByEmployee retrieves an employee's notifications, newest first
func (r *NotificationRepository) ListByEmployee(employeeID int64) ([]models.Notification, error) {
	query := `
		SELECT id, employee_id, message, read, created_at
		FROM notifications
		WHERE employee_id = $1
		ORDER BY created_at DESC
	`

	notifications := []models.Notification{}
	if err := r.db.Select(&notifications, query, employeeID); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead marks a single notification as read
func (r *NotificationRepository) MarkRead(notificationID uuid.UUID) error {
	result, err := r.db.Exec(`UPDATE notifications SET read = true WHERE id = $1`, notificationID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count updated notifications: %w", err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead marks all of an employee's notifications as read and returns
// how many changed
func (r *NotificationRepository) MarkAllRead(employeeID int64) (int, error) {
	result, err := r.db.Exec(
		`UPDATE notifications SET read = true WHERE employee_id = $1 AND read = false`,
		employeeID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count updated notifications: %w", err)
	}

	return int(affected), nil
}
