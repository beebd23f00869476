package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lazharichir/zigo/chat"
	"github.com/lazharichir/zigo/domain"
	"github.com/lazharichir/zigo/domain/commands"
	"github.com/lazharichir/zigo/server/connection"
	"github.com/rs/zerolog"
)

var ErrUnknownCommand = errors.New("unknown command type")

// Reply is sent back to the client that issued a command
type Reply struct {
	Name    string              `json:"name"`
	Command string              `json:"command,omitempty"`
	Result  any                 `json:"result,omitempty"`
	Error   string              `json:"error,omitempty"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

const (
	ReplyAck   = "ACK"
	ReplyError = "ERROR"
)

// Replier delivers a message to a single client
type Replier interface {
	SendToClient(clientID string, message []byte) bool
}

// CommandRouter routes incoming commands to the appropriate handler
type CommandRouter struct {
	store   *domain.Store
	chat    *chat.Service
	replier Replier
	log     zerolog.Logger
}

// NewCommandRouter creates a new command router
func NewCommandRouter(store *domain.Store, chatSvc *chat.Service, replier Replier, logger zerolog.Logger) *CommandRouter {
	return &CommandRouter{
		store:   store,
		chat:    chatSvc,
		replier: replier,
		log:     logger.With().Str("component", "commands").Logger(),
	}
}

// HandleCommand processes an incoming command message and answers the client
// with an ACK carrying the result, or an ERROR.
func (r *CommandRouter) HandleCommand(client *connection.Client, message []byte) error {
	name, result, err := r.route(message)
	if err != nil {
		reply := Reply{Name: ReplyError, Command: name, Error: err.Error()}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			reply.Fields = verr.Fields
		}
		r.reply(client, reply)
		return err
	}

	r.reply(client, Reply{Name: ReplyAck, Command: name, Result: result})
	return nil
}

func (r *CommandRouter) reply(client *connection.Client, reply Reply) {
	data, err := json.Marshal(reply)
	if err != nil {
		r.log.Error().Err(err).Str("command", reply.Command).Msg("failed to marshal reply")
		return
	}
	if !r.replier.SendToClient(client.ID, data) {
		r.log.Warn().Str("client_id", client.ID).Str("command", reply.Command).Msg("reply not delivered")
	}
}

// decode unmarshals the full message into the command named in it
func decode[C commands.Command](message []byte) (C, error) {
	var cmd C
	if err := json.Unmarshal(message, &cmd); err != nil {
		return cmd, fmt.Errorf("decode %s: %w", cmd.Name(), err)
	}
	return cmd, nil
}

func (r *CommandRouter) route(message []byte) (string, any, error) {
	// First determine command type
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		return "", nil, fmt.Errorf("decode command: %w", err)
	}

	switch baseCmd.Name {
	case commands.AddEvent{}.Name():
		cmd, err := decode[commands.AddEvent](message)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		result, err := r.handleAddEvent(cmd)
		return baseCmd.Name, result, err

	case commands.UpdateEvent{}.Name():
		cmd, err := decode[commands.UpdateEvent](message)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		result, err := r.handleUpdateEvent(cmd)
		return baseCmd.Name, result, err

	case commands.DeleteEvent{}.Name():
		cmd, err := decode[commands.DeleteEvent](message)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		return baseCmd.Name, nil, r.store.DeleteEvent(cmd.EventID)

	case commands.AddVendor{}.Name():
		cmd, err := decode[commands.AddVendor](message)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		result, err := r.handleAddVendor(cmd)
		return baseCmd.Name, result, err

	case commands.RemoveVendor{}.Name():
		cmd, err := decode[commands.RemoveVendor](message)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		return baseCmd.Name, nil, r.store.RemoveVendorFromEvent(cmd.EventID, cmd.VendorID)

	case commands.UpdateVendorPaymentStatus{}.Name():
		cmd, err := decode[commands.UpdateVendorPaymentStatus](message)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		return baseCmd.Name, nil, r.store.UpdateVendorPaymentStatus(cmd.EventID, cmd.VendorID, cmd.Status)

	case commands.AddGuest{}.Name():
		cmd, err := decode[commands.AddGuest](message)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		result, err := r.handleAddGuest(cmd)
		return baseCmd.Name, result, err

	case commands.UpdateGuestStatus{}.Name():
		cmd, err := decode[commands.UpdateGuestStatus](message)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		return baseCmd.Name, nil, r.store.UpdateGuestStatus(cmd.EventID, cmd.GuestID, cmd.Status)

	case commands.RemoveGuest{}.Name():
		cmd, err := decode[commands.RemoveGuest](message)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		return baseCmd.Name, nil, r.store.RemoveGuestFromEvent(cmd.EventID, cmd.GuestID)

	case commands.MarkCategoryCompleted{}.Name():
		cmd, err := decode[commands.MarkCategoryCompleted](message)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		return baseCmd.Name, nil, r.store.MarkCategoryCompleted(cmd.EventID, cmd.Category)

	case commands.SendChatMessage{}.Name():
		cmd, err := decode[commands.SendChatMessage](message)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		msg, err := r.chat.Send(cmd.EventID, cmd.Vendor, cmd.Text)
		if err != nil {
			return baseCmd.Name, nil, err
		}
		return baseCmd.Name, msg, nil

	default:
		r.log.Warn().Str("command", baseCmd.Name).Msg("unknown command type")
		return baseCmd.Name, nil, fmt.Errorf("%w: %q", ErrUnknownCommand, baseCmd.Name)
	}
}

func (r *CommandRouter) handleAddEvent(cmd commands.AddEvent) (domain.Event, error) {
	if err := domain.Validation(domain.ValidateNewEvent(cmd.Event)); err != nil {
		return domain.Event{}, err
	}
	return r.store.GetEvent(r.store.AddEvent(cmd.Event))
}

func (r *CommandRouter) handleUpdateEvent(cmd commands.UpdateEvent) (domain.Event, error) {
	if err := domain.Validation(domain.ValidateEventUpdate(cmd.Update)); err != nil {
		return domain.Event{}, err
	}
	return r.store.UpdateEvent(cmd.EventID, cmd.Update)
}

func (r *CommandRouter) handleAddVendor(cmd commands.AddVendor) (domain.Vendor, error) {
	if err := domain.Validation(domain.ValidateNewVendor(cmd.Vendor)); err != nil {
		return domain.Vendor{}, err
	}
	return r.store.AddVendorToEvent(cmd.EventID, cmd.Vendor)
}

func (r *CommandRouter) handleAddGuest(cmd commands.AddGuest) (domain.Guest, error) {
	if err := domain.Validation(domain.ValidateNewGuest(cmd.Guest)); err != nil {
		return domain.Guest{}, err
	}
	return r.store.AddGuestToEvent(cmd.EventID, cmd.Guest)
}
