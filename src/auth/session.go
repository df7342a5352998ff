package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"time"

	"git.retroherna.org/rh/rhforum/src/config"
	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/jobs"
	"git.retroherna.org/rh/rhforum/src/models"
	"git.retroherna.org/rh/rhforum/src/oops"
	"git.retroherna.org/rh/rhforum/src/utils"
	"github.com/jackc/pgx/v5/pgxpool"
)

const SessionCookieName = "RHForumSession"

const sessionDuration = time.Hour * 24 * 14

func makeSessionId() string {
	idBytes := make([]byte, 40)
	_, err := io.ReadFull(rand.Reader, idBytes)
	if err != nil {
		panic(err)
	}

	return base64.StdEncoding.EncodeToString(idBytes)[:40]
}

var ErrNoSession = errors.New("no session found")

func GetSession(ctx context.Context, conn db.ConnOrTx, id string) (*models.Session, error) {
	sess, err := db.QueryOne[models.Session](ctx, conn,
		`
		---- Get session
		SELECT $columns
		FROM sessions
		WHERE id = $1 AND expires_at > CURRENT_TIMESTAMP
		`,
		id,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, ErrNoSession
		} else {
			return nil, oops.New(err, "failed to get session")
		}
	}

	return sess, nil
}

func CreateSession(ctx context.Context, conn db.ConnOrTx, userID int) (*models.Session, error) {
	session := models.Session{
		ID:        makeSessionId(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionDuration),
	}

	_, err := conn.Exec(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`,
		session.ID, session.UserID, session.ExpiresAt,
	)
	if err != nil {
		return nil, oops.New(err, "failed to persist session")
	}

	return &session, nil
}

// Deletes a session by id. If no session with that id exists, no error is
// returned.
func DeleteSession(ctx context.Context, conn db.ConnOrTx, id string) error {
	_, err := conn.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return oops.New(err, "failed to delete session")
	}

	return nil
}

func NewSessionCookie(session *models.Session) *http.Cookie {
	return &http.Cookie{
		Name:  SessionCookieName,
		Value: session.ID,

		Domain:  config.Config.Auth.CookieDomain,
		Path:    "/",
		Expires: time.Now().Add(sessionDuration),

		Secure:   config.Config.Auth.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

var DeleteSessionCookie = &http.Cookie{
	Name:   SessionCookieName,
	Value:  "",
	MaxAge: -1,
}

// Periodically deletes expired sessions from the database.
func PeriodicallyDeleteExpiredSessions(conn *pgxpool.Pool) *jobs.Job {
	job := jobs.New("session sweeper")
	go func() {
		defer job.Finish()
		for {
			err := utils.SleepContext(job.Ctx, time.Hour)
			if err != nil {
				return
			}

			err = func() (err error) {
				defer utils.RecoverPanicAsError(&err)

				tag, err := conn.Exec(job.Ctx,
					`DELETE FROM sessions WHERE expires_at <= CURRENT_TIMESTAMP`,
				)
				if err != nil {
					return err
				}
				if tag.RowsAffected() > 0 {
					job.Logger.Info().Int64("deleted", tag.RowsAffected()).Msg("deleted expired sessions")
				}
				return nil
			}()
			if err != nil {
				job.Logger.Error().Err(err).Msg("failed to delete expired sessions")
			}
		}
	}()
	return job
}
