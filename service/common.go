package service

import (
	"fmt"
	"sekarnet/domain"
	"strconv"
	"time"
)

func forbidden(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrForbidden, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

func require(actor domain.Actor, action domain.Action) error {
	if !domain.Can(actor.Role, action) {
		return forbidden("role %s may not %s", actor.Role, action)
	}
	return nil
}

// ownerFor resolves the userId a create call targets: empty means the actor,
// anyone else needs admin.
func ownerFor(actor domain.Actor, requested uint) (uint, error) {
	if requested == 0 {
		return actor.ID, nil
	}
	if !domain.CanAccess(actor, requested) {
		return 0, forbidden("cannot act on behalf of user %d", requested)
	}
	return requested, nil
}

// notifyUser queues an in-app row for userID and its realtime push.
func notifyUser(fx *domain.SideEffects, userID uint, title, message, typ string) {
	id := userID
	fx.Notify(domain.Notification{
		UserID:  &id,
		Title:   title,
		Message: message,
		Type:    typ,
	})
	fx.Enqueue(domain.ChannelPush, "notification", fmt.Sprintf("user:%d", userID), map[string]interface{}{
		"type": "notification",
		"data": map[string]interface{}{"title": title, "message": message, "type": typ},
	})
}

// notifyRole queues a broadcast row for role and pushes it to that role.
func notifyRole(fx *domain.SideEffects, role, title, message, typ string) {
	r := role
	fx.Notify(domain.Notification{
		TargetRole: &r,
		Title:      title,
		Message:    message,
		Type:       typ,
	})
	fx.Enqueue(domain.ChannelPush, "notification", "role:"+role, map[string]interface{}{
		"type": "notification",
		"data": map[string]interface{}{"title": title, "message": message, "type": typ},
	})
}

func phoneOf(u *domain.User) string {
	if u == nil || u.Phone == nil {
		return ""
	}
	return *u.Phone
}

type clock func() time.Time

func (c clock) unix() int64 { return c().Unix() }

func uintString(v uint) string { return strconv.FormatUint(uint64(v), 10) }
