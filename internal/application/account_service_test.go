package application

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medrec/healthcare-api/internal/infrastructure/inmem"
	"github.com/medrec/healthcare-api/pkg/helpers"
	"github.com/medrec/healthcare-api/pkg/rules"
)

func newAccountService() (*AccountService, *inmem.UserRepository) {
	repo := inmem.NewUserRepository()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAccountService(repo, jwt, nil, logrus.New(), nil, false), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	u, errs, err := svc.Register(ctx, rules.UserCandidate{
		Username: "margo",
		Email:    "margo@example.com",
		Password: "orbital-Wrench-9",
	})
	if err != nil || !errs.Empty() {
		t.Fatalf("Register: err=%v errs=%v", err, errs)
	}
	if u.ID == "" {
		t.Fatal("expected assigned id")
	}
	if u.Password == "orbital-Wrench-9" {
		t.Fatal("password stored in plain text")
	}
	if !helpers.CompareHashAndPassword(u.Password, "orbital-Wrench-9") {
		t.Fatal("stored hash does not match the password")
	}
}

func TestRegisterFieldErrors(t *testing.T) {
	svc, repo := newAccountService()
	ctx := context.Background()

	_, errs, err := svc.Register(ctx, rules.UserCandidate{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	want := rules.FieldErrors{
		"username": {rules.MsgUsernameRequired},
		"email":    {rules.MsgEmailRequired},
		"password": {rules.MsgPasswordRequired},
	}
	if !reflect.DeepEqual(errs, want) {
		t.Fatalf("errors = %v, want %v", errs, want)
	}
	if repo.Len() != 0 {
		t.Fatal("invalid candidate must not be persisted")
	}
}

func TestRegisterDuplicateUsernameAndEmail(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	if _, errs, err := svc.Register(ctx, rules.UserCandidate{
		Username: "margo", Email: "margo@example.com", Password: "orbital-Wrench-9",
	}); err != nil || !errs.Empty() {
		t.Fatalf("first Register: err=%v errs=%v", err, errs)
	}

	_, errs, err := svc.Register(ctx, rules.UserCandidate{
		Username: "margo", Email: "margo@example.com", Password: "orbital-Wrench-9",
	})
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}
	want := rules.FieldErrors{
		"username": {rules.MsgUsernameTaken},
		"email":    {rules.MsgEmailTaken},
	}
	if !reflect.DeepEqual(errs, want) {
		t.Fatalf("errors = %v, want %v", errs, want)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	if _, errs, err := svc.Register(ctx, rules.UserCandidate{
		Username: "margo", Email: "margo@example.com", Password: "orbital-Wrench-9",
	}); err != nil || !errs.Empty() {
		t.Fatalf("Register: err=%v errs=%v", err, errs)
	}

	u, pair, err := svc.Login(ctx, "margo@example.com", "orbital-Wrench-9")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != u.ID {
		t.Fatalf("claims.UserID = %q, want %q", claims.UserID, u.ID)
	}

	if _, _, err := svc.Login(ctx, "margo@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "orbital-Wrench-9"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _ := newAccountService()
	if _, err := svc.Refresh(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Refresh err = %v, want ErrInvalidCredentials", err)
	}
}
