package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/nightshift/internal/api/apierr"
	"github.com/mcoot/nightshift/internal/model"
)

func (r *Router) handleRegisterUser(ctx context.Context, s *Session, data json.RawMessage) error {
	var in model.RegisterUserPayload
	if err := decode(data, &in); err != nil {
		return err
	}

	p, all, err := r.profiles.Register(ctx, in)
	if err != nil {
		return err
	}

	r.hub.Bind(s, p.Username)
	r.logger.Info("session registered",
		slog.String("session", s.ID()),
		slog.String("username", p.Username))

	r.hub.Broadcast(model.EventAllUsers, all)
	r.hub.Send(s, model.EventProfileSync, p)
	return nil
}

func (r *Router) handleUpdateProfile(ctx context.Context, s *Session, data json.RawMessage) error {
	var in model.UpdateProfilePayload
	if err := decode(data, &in); err != nil {
		return err
	}
	if err := requireIdentity(s, in.Username); err != nil {
		return err
	}

	res, err := r.profiles.Update(ctx, in)
	if err != nil {
		if isProfileError(err) {
			r.hub.Send(s, model.EventProfileUpdateError, apierr.Lookup(err).Message)
			return nil
		}
		return err
	}

	if res.Renamed {
		r.hub.Bind(s, res.Username)
		r.hub.Send(s, model.EventProfileUpdated, model.ProfileUpdatedPayload{
			Type:  model.ProfileUpdateUsername,
			Value: res.Username,
		})
	}
	r.hub.Send(s, model.EventProfileUpdated, model.ProfileUpdatedPayload{
		Type: model.ProfileUpdateFull,
		User: &res.Profile,
	})
	r.hub.Broadcast(model.EventAllUsers, res.All)
	return nil
}

func (r *Router) handleGetAllUsers(ctx context.Context, s *Session, data json.RawMessage) error {
	r.hub.Send(s, model.EventAllUsers, r.profiles.AllUsers())
	return nil
}

func (r *Router) handleSearchUsers(ctx context.Context, s *Session, data json.RawMessage) error {
	var query string
	if err := decode(data, &query); err != nil {
		return err
	}
	r.hub.Send(s, model.EventSearchResults, r.profiles.Search(query))
	return nil
}

func (r *Router) handleSendComment(ctx context.Context, s *Session, data json.RawMessage) error {
	var c model.Comment
	if err := decode(data, &c); err != nil {
		return err
	}
	if err := requireIdentity(s, c.Username); err != nil {
		return err
	}

	posted, err := r.chat.PostComment(ctx, c)
	if err != nil {
		if r.sendBanNotice(s, err) {
			return nil
		}
		return err
	}

	r.hub.Broadcast(model.EventNewComment, posted)
	return nil
}

func (r *Router) handleSendFriendRequest(ctx context.Context, s *Session, data json.RawMessage) error {
	var in model.FriendRequest
	if err := decode(data, &in); err != nil {
		return err
	}
	if err := requireIdentity(s, in.From); err != nil {
		return err
	}

	req, created, err := r.social.SendRequest(ctx, in.From, in.To)
	if err != nil {
		return err
	}
	if created {
		r.hub.SendToUser(req.To, model.EventNewFriendRequest, req)
	}
	return nil
}

func (r *Router) handleRespondFriendRequest(ctx context.Context, s *Session, data json.RawMessage) error {
	var in model.RespondFriendRequestPayload
	if err := decode(data, &in); err != nil {
		return err
	}
	// only the recipient answers a request
	if err := requireIdentity(s, in.To); err != nil {
		return err
	}

	matched, err := r.social.Respond(ctx, in.From, in.To, in.Status)
	if err != nil {
		return err
	}
	if matched && in.Status == model.FriendRequestAccepted {
		r.hub.SendToUser(in.From, model.EventFriendRequestAccepted, in.To)
		r.hub.SendToUser(in.To, model.EventFriendRequestAccepted, in.From)
	}
	return nil
}

func (r *Router) handleSendPrivateMessage(ctx context.Context, s *Session, data json.RawMessage) error {
	var m model.PrivateMessage
	if err := decode(data, &m); err != nil {
		return err
	}
	if err := requireIdentity(s, m.From); err != nil {
		return err
	}

	sent, err := r.chat.SendPrivateMessage(ctx, m)
	if err != nil {
		if r.sendBanNotice(s, err) {
			return nil
		}
		return err
	}

	r.hub.SendToUser(sent.To, model.EventNewPrivateMessage, sent)
	r.hub.SendToUser(sent.From, model.EventNewPrivateMessage, sent)
	return nil
}

func (r *Router) handleGetPrivateMessages(ctx context.Context, s *Session, data json.RawMessage) error {
	var in model.ConversationPayload
	if err := decode(data, &in); err != nil {
		return err
	}
	bound := s.Username()
	if bound == "" {
		return model.ErrNotRegistered
	}
	if bound != in.User1 && bound != in.User2 {
		return model.ErrIdentityMismatch
	}

	r.hub.Send(s, model.EventInitPrivateMessages, r.chat.Conversation(in.User1, in.User2))
	return nil
}
