package usecase

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-support-bridge/internal/domain"
	"telegram-support-bridge/internal/domain/model"
	"telegram-support-bridge/internal/domain/ports/repository"
	"telegram-support-bridge/internal/infra/logging"
	"telegram-support-bridge/internal/infra/metrics"
)

// Compile-time check
var _ SupportUseCase = (*supportUC)(nil)

// SupportUseCase is the shared message log as seen by both channels.
type SupportUseCase interface {
	// List returns the whole conversation, oldest first.
	List(ctx context.Context) ([]*model.Message, error)
	// Append trims and validates text, then stores it under sender.
	Append(ctx context.Context, text string, sender model.Role) (*model.Message, error)
	// Recent returns the last n messages, oldest first.
	Recent(ctx context.Context, n int) ([]*model.Message, error)
}

type supportUC struct {
	messages repository.MessageRepository
	tm       repository.TransactionManager
	log      *zerolog.Logger
	dev      bool
}

func NewSupportUseCase(messages repository.MessageRepository, tm repository.TransactionManager, logger *zerolog.Logger, dev bool) *supportUC {
	return &supportUC{
		messages: messages,
		tm:       tm,
		log:      logger,
		dev:      dev,
	}
}

func (u *supportUC) List(ctx context.Context) ([]*model.Message, error) {
	defer logging.TraceDuration(u.log, "SupportUC.List")()

	var out []*model.Message
	err := u.tm.WithConn(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		out, err = u.messages.ListAll(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *supportUC) Append(ctx context.Context, text string, sender model.Role) (*model.Message, error) {
	defer logging.TraceDuration(u.log, "SupportUC.Append")()

	clean, err := model.NormalizeText(text)
	if err != nil {
		metrics.IncValidationRejected()
		return nil, err
	}
	if _, err := model.ParseRole(string(sender)); err != nil {
		return nil, err
	}

	var msg *model.Message
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		var err error
		msg, err = u.messages.Append(ctx, tx, clean, sender)
		return err
	})
	if err != nil {
		l := logging.With(ctx, u.log)
		l.Error().Err(err).Str("sender", sender.String()).Msg("append message failed")
		if !errors.Is(err, domain.ErrPersistence) {
			err = domain.Persistence("append message", err)
		}
		return nil, err
	}

	metrics.IncMessageAppended(sender.String())
	l := logging.With(ctx, u.log)
	l.Info().
		Int64("message_id", msg.ID).
		Str("sender", sender.String()).
		Str("text", logging.Redact(msg.Text, u.dev)).
		Msg("message appended")
	return msg, nil
}

func (u *supportUC) Recent(ctx context.Context, n int) ([]*model.Message, error) {
	defer logging.TraceDuration(u.log, "SupportUC.Recent")()

	var out []*model.Message
	err := u.tm.WithConn(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		out, err = u.messages.ListRecent(ctx, tx, n)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
