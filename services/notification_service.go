package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/utils/logger"
)

// ErrNotificationNotFound is returned when the id is not in the user's list
var ErrNotificationNotFound = errors.New("notification not found")

// SampleNotifications is the list every user starts with
func SampleNotifications() []model.Notification {
	return []model.Notification{
		{ID: "n1", Title: "New recommendation: B.Tech Computer Science", Time: "2m ago", Read: false},
		{ID: "n2", Title: "Upcoming: NEET Application deadline", Time: "1h ago", Read: false},
		{ID: "n3", Title: "Timeline updated: DU admission process", Time: "Yesterday", Read: true},
	}
}

// NotificationService keeps per-user notification lists in memory.
// Lists are seeded on first access and lost on restart.
type NotificationService struct {
	mu    sync.Mutex
	lists map[string][]model.Notification
	log   *logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(log *logger.Logger) *NotificationService {
	if log == nil {
		log = logger.Nop()
	}
	return &NotificationService{lists: make(map[string][]model.Notification), log: log}
}

// must hold s.mu
func (s *NotificationService) listFor(userID string) []model.Notification {
	list, ok := s.lists[userID]
	if !ok {
		list = SampleNotifications()
		s.lists[userID] = list
	}
	return list
}

// GetNotificationsByUser returns a copy of the user's notifications
func (s *NotificationService) GetNotificationsByUser(userID string) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.listFor(userID)
	out := make([]model.Notification, len(list))
	copy(out, list)
	return out
}

// GetUnreadCount counts unread notifications
func (s *NotificationService) GetUnreadCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, item := range s.listFor(userID) {
		if !item.Read {
			n++
		}
	}
	return n
}

// Toggle flips the read flag of one notification and returns it
func (s *NotificationService) Toggle(userID, notificationID string) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.listFor(userID)
	for i := range list {
		if list[i].ID == notificationID {
			list[i].Read = !list[i].Read
			item := list[i]
			return &item, nil
		}
	}
	return nil, ErrNotificationNotFound
}

// MarkAllAsRead marks all notifications for a user as read and reports how many changed
func (s *NotificationService) MarkAllAsRead(userID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int64
	list := s.listFor(userID)
	for i := range list {
		if !list[i].Read {
			list[i].Read = true
			changed++
		}
	}
	return changed
}

// HandleAuthChange seeds the list of a user who just signed in
func (s *NotificationService) HandleAuthChange(_ context.Context, user *model.AuthUser) {
	if user == nil {
		return
	}

	s.mu.Lock()
	_, existed := s.lists[user.ID]
	s.listFor(user.ID)
	s.mu.Unlock()

	if !existed {
		s.log.Info("seeded notifications", "user_id", user.ID)
	}
}
