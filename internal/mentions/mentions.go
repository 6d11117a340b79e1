package mentions

import (
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/MosinFAM/connecthub/internal/storage"
)

var mentionRegex = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// Extract returns the distinct handles referenced via "@handle" in text,
// in first-occurrence order. Matching is case-sensitive.
func Extract(text string) []string {
	var handles []string
	seen := make(map[string]bool)
	for _, match := range mentionRegex.FindAllStringSubmatch(text, -1) {
		handle := match[1]
		if !seen[handle] {
			seen[handle] = true
			handles = append(handles, handle)
		}
	}
	return handles
}

// Notifier fans mention notifications out to resolved recipients.
type Notifier struct {
	Store storage.Storage
}

// NotifyMentions resolves every handle in text and writes one unread
// notification per recipient in a single batch. Unresolved handles are
// ignored, and the actor never notifies themselves.
func (n *Notifier) NotifyMentions(text string, actorID int64, context string) error {
	var recipients []int64
	for _, handle := range Extract(text) {
		user, err := n.Store.GetUserByUsername(handle)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if user.ID == actorID {
			continue
		}
		recipients = append(recipients, user.ID)
	}
	if len(recipients) == 0 {
		return nil
	}
	log.Printf("Notifying %d mentioned users", len(recipients))
	message := fmt.Sprintf("You were mentioned in a %s.", context)
	return n.Store.CreateNotifications(recipients, message)
}
