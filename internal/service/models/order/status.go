package order

import "errors"

// Status is the lifecycle state of an order. Validation is membership-only:
// any valid status may move to any other valid status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a raw string into a Status, rejecting anything outside
// the six-member enumeration.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Validate reports whether the status is a member of the enumeration.
func (s Status) Validate() error {
	_, err := ParseStatus(string(s))
	return err
}

// IsTerminal reports whether the status removes the order from the active set.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Transition is the decision for a status update: where the order moves and
// how the active-orders gauge changes. ActiveDelta is -1 only when the order
// leaves the active set, so a terminal-to-terminal move never decrements twice.
type Transition struct {
	From        Status
	To          Status
	ActiveDelta int
}

// TransitionTo computes the transition decision against the status observed
// at read time. The target must already be validated for membership.
func (s Status) TransitionTo(to Status) Transition {
	delta := 0
	if to.IsTerminal() && !s.IsTerminal() {
		delta = -1
	}

	return Transition{
		From:        s,
		To:          to,
		ActiveDelta: delta,
	}
}
