// Package audit emits structured JSON event lines for every state-changing
// operation on an authorization session. Events are log-only; durable audit
// storage, if wanted, belongs to the hosting application.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"countersign.org/internal/obs"
)

type ctxKey string

const (
	sessionIDKey ctxKey = "audit_session_id"
	actorRoleKey ctxKey = "audit_actor_role"
)

// WithSessionID attaches the authorization session identifier to the context
// for audit logging.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithActorRole attaches the acting officer's role to the context.
func WithActorRole(ctx context.Context, role string) context.Context {
	role = strings.TrimSpace(role)
	if role == "" {
		return ctx
	}
	return context.WithValue(ctx, actorRoleKey, role)
}

func sessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

func actorRoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(actorRoleKey).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes an audit log entry enriched with session and actor context.
func LogEvent(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"type":  "audit",
		"event": event,
	}
	if sid := sessionIDFromContext(ctx); sid != "" {
		entry["session_id"] = sid
	}
	if role := actorRoleFromContext(ctx); role != "" {
		entry["actor_role"] = role
	}
	if len(fields) > 0 {
		copyFields := make(map[string]any, len(fields))
		for k, v := range fields {
			copyFields[k] = v
		}
		entry["fields"] = copyFields
	} else {
		entry["fields"] = map[string]any{}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	obs.Logger().Println(string(data))
	return nil
}
