package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Rafa-lopez12/examen-arqui/internal/cfg"
	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/internal/repository/redis/converter"
	"github.com/Rafa-lopez12/examen-arqui/pkg/clients"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// SessionRepo stores checkout sessions as JSON. Every save refreshes the TTL,
// so an abandoned checkout expires on its own.
type SessionRepo struct {
	client *clients.RedisClient
	conv   converter.SessionConverter
	cfg    *cfg.RedisCfg
}

func NewSessionRepo(client *clients.RedisClient, conv converter.SessionConverter, cfg *cfg.RedisCfg) *SessionRepo {
	return &SessionRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
	}
}

func (s *SessionRepo) Save(ctx context.Context, session *domain.CheckoutSession) error {
	data, err := json.Marshal(s.conv.ToRedisModel(session))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := s.client.Client.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (s *SessionRepo) Get(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	data, err := s.client.Client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrSessionNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.SessionRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(&model), nil
}

// Delete succeeds for unknown ids.
func (s *SessionRepo) Delete(ctx context.Context, id string) error {
	if err := s.client.Client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func sessionKey(id string) string {
	return "checkout:" + id
}
