package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	pollPeriod     = 30 * time.Second
	maxMessageSize = 512
)

// ReminderSocket streams due reminders to the connected user. Each delivered
// reminder is marked sent so it is pushed exactly once.
func ReminderSocket(c *gin.Context) {
	userID, err := utils.GetCurrentUserID(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		zap.L().Warn("failed to set read deadline", zap.Error(err))
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}

	if err := conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "Reminder stream established",
	}); err != nil {
		zap.L().Warn("failed to send welcome message", zap.Error(err))
		return
	}

	// The reader goroutine only drains control frames and signals close.
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					zap.L().Warn("websocket read error", zap.Uint("user_id", userID), zap.Error(err))
				}
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	pollTicker := time.NewTicker(pollPeriod)
	defer pollTicker.Stop()

	// Push anything already due before the first poll tick.
	if err := pushDueReminders(conn, userID); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-pingTicker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-pollTicker.C:
			if err := pushDueReminders(conn, userID); err != nil {
				return
			}
		}
	}
}

func pushDueReminders(conn *websocket.Conn, userID uint) error {
	reminders, err := dueRemindersFor(userID, time.Now().UTC())

	if err != nil {
		zap.L().Error("failed to query due reminders", zap.Error(err))
		return nil // transient DB errors should not kill the connection
	}

	for _, reminder := range reminders {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}

		if err := conn.WriteJSON(gin.H{"type": "reminder", "reminder": reminder}); err != nil {
			return err
		}

		err := db.DB.Model(&models.Reminder{}).
			Where("id = ?", reminder.ReminderID).
			Update("is_sent", true).Error

		if err != nil {
			zap.L().Error("failed to mark reminder sent", zap.Uint("reminder_id", reminder.ReminderID), zap.Error(err))
		}
	}

	return nil
}
