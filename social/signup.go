package social

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	auth "github.com/goliatone/go-social-auth"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

// SignupRequest is the completion payload for the second phase of
// social signup. The temp token authenticates the request, everything
// else fills out the profile.
type SignupRequest struct {
	TempToken  string     `json:"temp_token"`
	Nickname   string     `json:"nickname"`
	Location   string     `json:"location"`
	Interests  []string   `json:"interests"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Phone      string     `json:"phone_number,omitempty"`
	AvatarURL  string     `json:"profile_image_url,omitempty"`
	Bio        string     `json:"bio,omitempty"`
	AgreeTerms bool       `json:"agree_terms,omitempty"`
}

// Validate checks the profile fields. Token validity is checked
// separately and first, a payload with a dead token never reaches
// these rules.
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TempToken, validation.Required),
		validation.Field(&r.Nickname, validation.Required, validation.Length(2, 30)),
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.Interests, validation.Required, validation.Length(1, 5)),
		validation.Field(&r.Bio, validation.Length(0, 500)),
		validation.Field(&r.BirthDate, validation.By(validBirthDate)),
		validation.Field(&r.Phone, validation.By(validPhone)),
	)
}

func validBirthDate(value any) error {
	var t time.Time
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return nil
		}
		t = *v
	default:
		return fmt.Errorf("must be a date")
	}

	if t.IsZero() {
		return nil
	}

	age := ageAt(t, time.Now())
	if age < 14 {
		return fmt.Errorf("must be at least 14 years old")
	}
	if age > 120 {
		return fmt.Errorf("must be a plausible birth date")
	}
	return nil
}

func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	return age
}

func validPhone(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "KR")
	if err != nil {
		return fmt.Errorf("must be a valid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return fmt.Errorf("must be a valid phone number")
	}
	return nil
}

// CompleteSignup finishes the handshake Login started. The temp token
// is validated before anything else so an expired handshake fails with
// a token error, not a validation error. The nickname check and the
// insert run in one transaction, the unique constraints remain the
// final arbiter under concurrency.
func (s *SocialAuthenticator) CompleteSignup(ctx context.Context, req SignupRequest) (*LoginResult, error) {
	temp, err := s.tokens.TempUser(req.TempToken)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		clone := ErrInvalidSignup.Clone()
		clone.Source = err
		return nil, clone.WithMetadata(map[string]any{
			"fields": err.Error(),
		})
	}

	user := s.buildUser(temp, req)

	var created *auth.User
	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		users := s.repo.Users()

		// the provider nickname was already shown to the user, only a
		// changed nickname needs the early duplicate check
		if req.Nickname != temp.Nickname {
			taken, err := users.ExistsByNicknameTx(ctx, tx, req.Nickname)
			if err != nil {
				return err
			}
			if taken {
				return auth.ErrNicknameExists.Clone().WithMetadata(map[string]any{
					"nickname": req.Nickname,
				})
			}
		}

		record, err := users.RegisterTx(ctx, tx, user)
		if err != nil {
			return err
		}

		created = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokens.IssueTokensFor(created)
	if err != nil {
		return nil, err
	}

	s.logger.Info("social signup completed", "provider", temp.ProviderKind)

	return &LoginResult{
		Status: LoginSuccess,
		Tokens: tokens,
		User:   created,
	}, nil
}

func (s *SocialAuthenticator) buildUser(temp *auth.TempUserInfo, req SignupRequest) *auth.User {
	avatar := req.AvatarURL
	if avatar == "" {
		avatar = temp.AvatarURL
	}

	// social accounts authenticate through their provider and carry
	// no password hash
	return &auth.User{
		Email:        temp.Email,
		Nickname:     req.Nickname,
		AccountType:  auth.AccountSocial,
		ProviderID:   temp.ProviderID,
		ProviderKind: temp.ProviderKind,
		AvatarURL:    avatar,
		Phone:        req.Phone,
		Location:     req.Location,
		Bio:          req.Bio,
		Interests:    req.Interests,
		BirthDate:    req.BirthDate,
		AgreedTerms:  req.AgreeTerms,
	}
}
