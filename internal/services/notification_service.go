package services

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	apperrors "hestia/internal/errors"
	"hestia/internal/logger"
	"hestia/internal/models"
	"hestia/internal/pagination"
	"hestia/internal/realtime"
)

// EventPublisher pushes notification events to connected clients.
// *realtime.Hub satisfies it; tests substitute a recorder.
type EventPublisher interface {
	Publish(userID string, event realtime.Event)
}

// notificationService handles per-user notifications and pushes realtime
// events to connected clients.
type notificationService struct {
	db  *gorm.DB
	hub EventPublisher
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB, hub EventPublisher) NotificationServicer {
	return &notificationService{db: db, hub: hub}
}

// GetUserNotifications lists the user's notifications, newest first.
func (s *notificationService) GetUserNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&notifications).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(notifications, page.Page, page.PageSize, total)
	return &resp, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *notificationService) UnreadCount(userID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// getOwned loads a notification and verifies ownership.
func (s *notificationService) getOwned(userID, notificationID string) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.Where("id = ?", notificationID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if notification.UserID != userID {
		return nil, apperrors.ErrNotificationNotFound
	}
	return &notification, nil
}

// MarkRead marks a single notification as read. Idempotent.
func (s *notificationService) MarkRead(userID, notificationID string) (*models.Notification, error) {
	notification, err := s.getOwned(userID, notificationID)
	if err != nil {
		return nil, err
	}

	if !notification.Read {
		if err := s.db.Model(notification).Update("read", true).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		notification.Read = true
		s.publish(userID, realtime.ActionUpdate, notification)
	}
	return notification, nil
}

// MarkAllRead marks every unread notification of the user as read and
// pushes an update event for each, so connected clients stay in sync
// with single-notification reads.
func (s *notificationService) MarkAllRead(userID string) error {
	var unread []models.Notification
	err := s.db.
		Where("user_id = ? AND read = ?", userID, false).
		Find(&unread).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(unread) == 0 {
		return nil
	}

	err = s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range unread {
		unread[i].Read = true
		s.publish(userID, realtime.ActionUpdate, &unread[i])
	}
	return nil
}

// DeleteNotification removes a notification owned by the user.
func (s *notificationService) DeleteNotification(userID, notificationID string) error {
	notification, err := s.getOwned(userID, notificationID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(notification).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.publish(userID, realtime.ActionDelete, notification)
	return nil
}

// Dispatch creates a notification and pushes it to connected clients.
// Failures are logged and swallowed: a notification must never break the
// operation that produced it.
func (s *notificationService) Dispatch(userID string, kind models.NotificationType, title, message string, data map[string]interface{}, relatedInvitationID *string) {
	log := logger.Get()

	payload := ""
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Warnw("failed to encode notification payload", "error", err, "user_id", userID, "type", kind)
		} else {
			payload = string(raw)
		}
	}

	notification := &models.Notification{
		UserID:              userID,
		Type:                kind,
		Title:               title,
		Message:             message,
		Data:                payload,
		RelatedInvitationID: relatedInvitationID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		log.Errorw("failed to store notification", "error", err, "user_id", userID, "type", kind)
		return
	}

	s.publish(userID, realtime.ActionCreate, notification)
}

func (s *notificationService) publish(userID, action string, notification *models.Notification) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(userID, realtime.Event{Action: action, Record: notification})
}
