package infrastructure

import (
	"context"
	"encoding/json"

	"tokenrush/application"
	"tokenrush/domain/entities"
	"tokenrush/domain/games"
	"tokenrush/domain/interfaces"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// commandQueueGroup load-balances commands across service instances
const commandQueueGroup = "tokenrush"

// NATSCommandHandler exposes the service over NATS request/reply. Each
// command subject carries a JSON request and answers with a commandReply.
type NATSCommandHandler struct {
	nc      *nats.Conn
	play    *application.PlayService
	ledger  interfaces.LedgerService
	rewards interfaces.RewardsService
	users   interfaces.UserService
	subs    []*nats.Subscription
}

// NewNATSCommandHandler creates a command handler over an established
// NATS connection
func NewNATSCommandHandler(nc *nats.Conn, play *application.PlayService, ledger interfaces.LedgerService, rewards interfaces.RewardsService, users interfaces.UserService) *NATSCommandHandler {
	return &NATSCommandHandler{
		nc:      nc,
		play:    play,
		ledger:  ledger,
		rewards: rewards,
		users:   users,
	}
}

type commandReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type playRequest struct {
	UserID    int64          `json:"userId"`
	GameType  string         `json:"gameType"`
	BetAmount int64          `json:"betAmount"`
	Params    map[string]any `json:"params"`
}

type userRequest struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

type referralRequest struct {
	UserID       int64  `json:"userId"`
	ReferralCode string `json:"referralCode"`
}

type adRewardRequest struct {
	UserID      int64  `json:"userId"`
	Provider    string `json:"provider"`
	Amount      int64  `json:"amount"`
	ReferenceID string `json:"referenceId"`
}

// Start subscribes to the command subjects and blocks until ctx is cancelled
func (h *NATSCommandHandler) Start(ctx context.Context) error {
	handlers := map[string]nats.MsgHandler{
		"tokenrush.commands.play":        h.handlePlay(ctx),
		"tokenrush.commands.daily_bonus": h.handleDailyBonus(ctx),
		"tokenrush.commands.referral":    h.handleReferral(ctx),
		"tokenrush.commands.ad_reward":   h.handleAdReward(ctx),
		"tokenrush.commands.balance":     h.handleBalance(ctx),
		"tokenrush.commands.user":        h.handleUser(ctx),
	}

	for subject, handler := range handlers {
		sub, err := h.nc.QueueSubscribe(subject, commandQueueGroup, handler)
		if err != nil {
			return err
		}
		h.subs = append(h.subs, sub)
	}

	log.Info("NATS command handler is running")
	<-ctx.Done()

	log.Info("NATS command handler shutting down, draining subscriptions...")
	for _, sub := range h.subs {
		_ = sub.Drain()
	}
	return nil
}

func (h *NATSCommandHandler) handlePlay(ctx context.Context) nats.MsgHandler {
	return func(m *nats.Msg) {
		var req playRequest
		if err := json.Unmarshal(m.Data, &req); err != nil {
			h.replyError(m, err)
			return
		}
		result, err := h.play.Play(ctx, req.UserID, entities.GameType(req.GameType), req.BetAmount, games.Params(req.Params))
		if err != nil {
			h.replyError(m, err)
			return
		}
		h.reply(m, result)
	}
}

func (h *NATSCommandHandler) handleDailyBonus(ctx context.Context) nats.MsgHandler {
	return func(m *nats.Msg) {
		var req userRequest
		if err := json.Unmarshal(m.Data, &req); err != nil {
			h.replyError(m, err)
			return
		}
		claim, err := h.rewards.ClaimDailyBonus(ctx, req.UserID)
		if err != nil {
			h.replyError(m, err)
			return
		}
		h.reply(m, claim)
	}
}

func (h *NATSCommandHandler) handleReferral(ctx context.Context) nats.MsgHandler {
	return func(m *nats.Msg) {
		var req referralRequest
		if err := json.Unmarshal(m.Data, &req); err != nil {
			h.replyError(m, err)
			return
		}
		if err := h.rewards.ProcessReferral(ctx, req.UserID, req.ReferralCode); err != nil {
			h.replyError(m, err)
			return
		}
		h.reply(m, nil)
	}
}

func (h *NATSCommandHandler) handleAdReward(ctx context.Context) nats.MsgHandler {
	return func(m *nats.Msg) {
		var req adRewardRequest
		if err := json.Unmarshal(m.Data, &req); err != nil {
			h.replyError(m, err)
			return
		}
		if err := h.rewards.ClaimAdReward(ctx, req.UserID, req.Provider, req.Amount, req.ReferenceID); err != nil {
			h.replyError(m, err)
			return
		}
		h.reply(m, nil)
	}
}

func (h *NATSCommandHandler) handleBalance(ctx context.Context) nats.MsgHandler {
	return func(m *nats.Msg) {
		var req userRequest
		if err := json.Unmarshal(m.Data, &req); err != nil {
			h.replyError(m, err)
			return
		}
		balance, err := h.ledger.GetBalance(ctx, req.UserID)
		if err != nil {
			h.replyError(m, err)
			return
		}
		h.reply(m, map[string]int64{"balance": balance})
	}
}

func (h *NATSCommandHandler) handleUser(ctx context.Context) nats.MsgHandler {
	return func(m *nats.Msg) {
		var req userRequest
		if err := json.Unmarshal(m.Data, &req); err != nil {
			h.replyError(m, err)
			return
		}
		user, err := h.users.GetOrCreateUser(ctx, req.UserID, req.Username)
		if err != nil {
			h.replyError(m, err)
			return
		}
		h.reply(m, user)
	}
}

func (h *NATSCommandHandler) reply(m *nats.Msg, data any) {
	if m.Reply == "" {
		return
	}
	payload, err := json.Marshal(commandReply{OK: true, Data: data})
	if err != nil {
		log.WithField("subject", m.Subject).WithError(err).Error("Failed to marshal command reply")
		return
	}
	if err := m.Respond(payload); err != nil {
		log.WithField("subject", m.Subject).WithError(err).Error("Failed to send command reply")
	}
}

func (h *NATSCommandHandler) replyError(m *nats.Msg, cmdErr error) {
	log.WithField("subject", m.Subject).WithError(cmdErr).Warn("Command failed")
	if m.Reply == "" {
		return
	}
	payload, err := json.Marshal(commandReply{OK: false, Error: cmdErr.Error()})
	if err != nil {
		return
	}
	if err := m.Respond(payload); err != nil {
		log.WithField("subject", m.Subject).WithError(err).Error("Failed to send command reply")
	}
}
