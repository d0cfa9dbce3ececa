package services

import (
	"encoding/json"
	"fmt"
	"log"

	"volunteer-connect-server/models"
	"volunteer-connect-server/storage"
	"volunteer-connect-server/utils"
)

// NotificationService delivers in-app and push notifications. Every send is
// fire-and-forget from the caller's point of view: failures are logged and
// never roll back the operation that triggered them.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}
	return tokens, nil
}

// SendNotificationToUser writes the in-app row and pushes to every token.
func (ns *NotificationService) SendNotificationToUser(userID uint, title, body string, notifType, refType string, refID uint) error {
	row := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: body,
		RefType: refType,
		RefID:   refID,
	}
	if err := storage.DB.Create(&row).Error; err != nil {
		log.Printf("notifications: failed to store notification for user %d: %v", userID, err)
	}

	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		log.Printf("notifications: no push for user %d: %v", userID, err)
		return err
	}

	data := map[string]string{
		"type":    notifType,
		"refType": refType,
		"refID":   fmt.Sprintf("%d", refID),
	}
	var lastError error
	for _, token := range tokens {
		if err := utils.SendPushNotification(token, title, body, data); err != nil {
			log.Printf("notifications: push to token failed: %v", err)
			lastError = err
		}
	}
	return lastError
}

// SendBookingStatusNotification tells the volunteer their booking moved.
func (ns *NotificationService) SendBookingStatusNotification(volunteerID, bookingID uint, status string) error {
	title := "Booking update"
	body := fmt.Sprintf("Your booking is now %s", status)
	return ns.SendNotificationToUser(volunteerID, title, body, "booking_status", "booking", bookingID)
}

// SendBookingCompletedNotification is the final release signal on completion.
func (ns *NotificationService) SendBookingCompletedNotification(volunteerID, bookingID uint) error {
	title := "Stay completed"
	body := "Your volunteer stay is completed. Thank you!"
	return ns.SendNotificationToUser(volunteerID, title, body, "booking_status", "booking", bookingID)
}

// SendContactRequestNotification tells the volunteer an organization asked
// for their contact details.
func (ns *NotificationService) SendContactRequestNotification(volunteerID, grantID uint) error {
	title := "Contact request"
	body := "An organization asked to see your contact details"
	return ns.SendNotificationToUser(volunteerID, title, body, "contact_request", "contact_grant", grantID)
}

// SendContactDecisionNotification tells the organization's owner the outcome.
func (ns *NotificationService) SendContactDecisionNotification(organizationID, grantID uint, status string) error {
	var org models.Organization
	if err := storage.DB.First(&org, organizationID).Error; err != nil {
		log.Printf("notifications: organization %d not found: %v", organizationID, err)
		return err
	}
	title := "Contact request decided"
	body := fmt.Sprintf("Your contact request was %s", status)
	return ns.SendNotificationToUser(org.OwnerID, title, body, "contact_decision", "contact_grant", grantID)
}

// SendNewMessageNotification tells the receiver about a message.
func (ns *NotificationService) SendNewMessageNotification(receiverID, senderID uint, messageID uint) error {
	var sender models.User
	name := "Someone"
	if err := storage.DB.First(&sender, senderID).Error; err == nil {
		name = fmt.Sprintf("%s %s", sender.FirstName, sender.LastName)
	}
	title := "New message"
	body := fmt.Sprintf("%s sent you a message", name)
	return ns.SendNotificationToUser(receiverID, title, body, "new_message", "message", messageID)
}
