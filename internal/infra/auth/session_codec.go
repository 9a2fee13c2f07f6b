package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"menshub/config"
	"menshub/internal/domain/entity"
	"menshub/internal/domain/service"
)

// jwtSessionCodec signs the persisted session record with HS256 so a
// hand-edited or truncated record fails verification instead of granting
// access. Claims carry only the subject and the hard expiry; everything
// else about the actor is resolved from the identity provider.
type jwtSessionCodec struct {
	secret []byte
}

// NewJWTSessionCodec is the constructor for jwtSessionCodec.
func NewJWTSessionCodec(cfg *config.Config) (service.SessionCodec, error) {
	if cfg.Session == nil || cfg.Session.Secret == "" {
		return nil, errors.New("session secret must be provided")
	}

	return &jwtSessionCodec{secret: []byte(cfg.Session.Secret)}, nil
}

// Encode produces a signed token for the session.
func (c *jwtSessionCodec) Encode(session *entity.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub": session.SubjectID,
		"iat": time.Now().Unix(),
		"exp": session.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign session token")
	}

	return signed, nil
}

// Decode verifies a signed token and reconstructs the session. Expiry is
// NOT enforced here: the session manager owns the expiry decision so that
// an expired-but-authentic record is distinguishable from a corrupt one.
func (c *jwtSessionCodec) Decode(tokenString string) (*entity.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return c.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, errors.Wrap(err, "parse session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected session claims type")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.New("session token missing subject")
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return nil, errors.New("session token missing expiry")
	}

	return &entity.Session{
		SubjectID: subject,
		ExpiresAt: expiry.Time,
	}, nil
}
