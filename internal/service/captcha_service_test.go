package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/ninetytwo-orders/internal/config"
)

func TestCaptchaDisabledPassesThrough(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Enabled: false})
	if err := svc.Verify(CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled captcha must pass, got %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaDisabled) {
		t.Fatalf("expected ErrCaptchaDisabled, got %v", err)
	}
}

func TestCaptchaGenerateAndVerify(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Enabled: true})
	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || !strings.HasPrefix(challenge.ImageBase64, "data:image/png;base64,") {
		t.Fatalf("unexpected challenge: id=%q image length=%d", challenge.CaptchaID, len(challenge.ImageBase64))
	}

	if err := svc.Verify(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected ErrCaptchaRequired, got %v", err)
	}
	if err := svc.imageStore().Set("fixed", "K7m2p"); err != nil {
		t.Fatalf("seed store failed: %v", err)
	}
	if err := svc.Verify(CaptchaVerifyPayload{CaptchaID: "fixed", CaptchaCode: "wrong"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("expected ErrCaptchaInvalid, got %v", err)
	}
	if err := svc.imageStore().Set("fixed", "K7m2p"); err != nil {
		t.Fatalf("seed store failed: %v", err)
	}
	if err := svc.Verify(CaptchaVerifyPayload{CaptchaID: "fixed", CaptchaCode: "K7m2p"}); err != nil {
		t.Fatalf("expected valid captcha, got %v", err)
	}
	if err := svc.Verify(CaptchaVerifyPayload{CaptchaID: "fixed", CaptchaCode: "K7m2p"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("captcha answer must be single use, got %v", err)
	}
}
