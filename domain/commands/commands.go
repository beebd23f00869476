package commands

import "github.com/lazharichir/zigo/domain"

// Command is a request sent by a view over the websocket
type Command interface {
	Name() string
}

type AddEvent struct {
	Event domain.NewEvent `json:"event"`
}

func (c AddEvent) Name() string { return "ADD_EVENT" }

type UpdateEvent struct {
	EventID string             `json:"eventId"`
	Update  domain.EventUpdate `json:"update"`
}

func (c UpdateEvent) Name() string { return "UPDATE_EVENT" }

type DeleteEvent struct {
	EventID string `json:"eventId"`
}

func (c DeleteEvent) Name() string { return "DELETE_EVENT" }

type AddVendor struct {
	EventID string           `json:"eventId"`
	Vendor  domain.NewVendor `json:"vendor"`
}

func (c AddVendor) Name() string { return "ADD_VENDOR" }

type RemoveVendor struct {
	EventID  string `json:"eventId"`
	VendorID string `json:"vendorId"`
}

func (c RemoveVendor) Name() string { return "REMOVE_VENDOR" }

type UpdateVendorPaymentStatus struct {
	EventID  string               `json:"eventId"`
	VendorID string               `json:"vendorId"`
	Status   domain.PaymentStatus `json:"status"`
}

func (c UpdateVendorPaymentStatus) Name() string { return "UPDATE_VENDOR_PAYMENT_STATUS" }

type AddGuest struct {
	EventID string          `json:"eventId"`
	Guest   domain.NewGuest `json:"guest"`
}

func (c AddGuest) Name() string { return "ADD_GUEST" }

type UpdateGuestStatus struct {
	EventID string             `json:"eventId"`
	GuestID string             `json:"guestId"`
	Status  domain.GuestStatus `json:"status"`
}

func (c UpdateGuestStatus) Name() string { return "UPDATE_GUEST_STATUS" }

type RemoveGuest struct {
	EventID string `json:"eventId"`
	GuestID string `json:"guestId"`
}

func (c RemoveGuest) Name() string { return "REMOVE_GUEST" }

type MarkCategoryCompleted struct {
	EventID  string          `json:"eventId"`
	Category domain.Category `json:"category"`
}

func (c MarkCategoryCompleted) Name() string { return "MARK_CATEGORY_COMPLETED" }

type SendChatMessage struct {
	EventID string `json:"eventId"`
	Vendor  string `json:"vendor"`
	Text    string `json:"text"`
}

func (c SendChatMessage) Name() string { return "SEND_CHAT_MESSAGE" }
