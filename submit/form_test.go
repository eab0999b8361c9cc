package submit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pvdveen/accountflow/internal/rest"
)

type loginValues struct {
	Email    string
	Password string
}

type loginResult struct {
	Email string
}

func succeedingForm() *Form[loginValues, loginResult] {
	return New(func(ctx context.Context, v loginValues) (loginResult, error) {
		return loginResult{Email: v.Email}, nil
	})
}

func failingForm(err error) *Form[loginValues, loginResult] {
	return New(func(ctx context.Context, v loginValues) (loginResult, error) {
		return loginResult{}, err
	})
}

func TestSubmitSuccessSetsDataOnly(t *testing.T) {
	f := succeedingForm()

	if err := f.Submit(context.Background(), loginValues{Email: "a@b.nl"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	snap := f.Snapshot()
	if snap.Phase != Succeeded {
		t.Fatalf("expected Succeeded, got %v", snap.Phase)
	}
	if snap.Data == nil || snap.Data.Email != "a@b.nl" {
		t.Fatalf("expected decoded data, got %+v", snap.Data)
	}
	if snap.Message != "" {
		t.Fatalf("expected no message on success, got %q", snap.Message)
	}
}

func TestSubmitDomainErrorMapsMessageKey(t *testing.T) {
	err := &rest.CallError{Status: 401, Envelope: rest.Envelope{Code: rest.CodeInvalidCredentials}}
	f := failingForm(err)

	if err := f.Submit(context.Background(), loginValues{}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	snap := f.Snapshot()
	if snap.Phase != Failed {
		t.Fatalf("expected Failed, got %v", snap.Phase)
	}
	if snap.Message != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %q", snap.Message)
	}
	if snap.Data != nil {
		t.Fatal("expected no data on failure")
	}
}

func TestSubmitTransportErrorMapsNetworkKey(t *testing.T) {
	f := failingForm(&rest.NetworkError{Err: errors.New("connection refused")})

	if err := f.Submit(context.Background(), loginValues{}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if got := f.Snapshot().Message; got != rest.KeyNetworkError {
		t.Fatalf("expected %s, got %q", rest.KeyNetworkError, got)
	}
}

func TestSubmitUnmappedCodeFallsBackToUnknown(t *testing.T) {
	err := &rest.CallError{Status: 500, Envelope: rest.Envelope{Code: rest.ErrorCode(42)}}
	f := failingForm(err)

	if err := f.Submit(context.Background(), loginValues{}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if got := f.Snapshot().Message; got != rest.KeyUnknownError {
		t.Fatalf("expected %s, got %q", rest.KeyUnknownError, got)
	}
}

func TestSubmitSingleFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := New(func(ctx context.Context, v loginValues) (loginResult, error) {
		close(started)
		<-release
		return loginResult{}, nil
	})

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background(), loginValues{}) }()
	<-started

	if err := f.Submit(context.Background(), loginValues{}); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	if f.Snapshot().Phase != Succeeded {
		t.Fatal("expected first submission to resolve")
	}
}

func TestResetDiscardsInFlightResolution(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := New(func(ctx context.Context, v loginValues) (loginResult, error) {
		close(started)
		<-release
		return loginResult{Email: "stale@b.nl"}, nil
	})

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background(), loginValues{}) }()
	<-started

	f.Reset()
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	snap := f.Snapshot()
	if snap.Phase != Idle {
		t.Fatalf("expected Idle after reset, got %v", snap.Phase)
	}
	if snap.Data != nil {
		t.Fatal("expected stale resolution to be discarded")
	}
}

func TestResetIdleIsNoOp(t *testing.T) {
	f := succeedingForm()

	var mu sync.Mutex
	var notifications int
	cancel := f.Subscribe(func(Snapshot[loginResult]) {
		mu.Lock()
		notifications++
		mu.Unlock()
	})
	defer cancel()

	f.Reset()
	f.Reset()

	mu.Lock()
	defer mu.Unlock()
	if notifications != 0 {
		t.Fatalf("expected no notifications from idle resets, got %d", notifications)
	}
}

func TestOnFinishAndAutoReset(t *testing.T) {
	f := succeedingForm()
	f.AutoReset(true)

	var finished []loginResult
	f.OnFinish(func(r loginResult) { finished = append(finished, r) })

	if err := f.Submit(context.Background(), loginValues{Email: "a@b.nl"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if len(finished) != 1 || finished[0].Email != "a@b.nl" {
		t.Fatalf("expected one finish callback, got %+v", finished)
	}
	if f.Snapshot().Phase != Idle {
		t.Fatal("expected auto-reset back to Idle")
	}
}

func TestFailedSubmissionIsNotAutoReset(t *testing.T) {
	f := failingForm(&rest.NetworkError{Err: errors.New("boom")})
	f.AutoReset(true)

	if err := f.Submit(context.Background(), loginValues{}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if f.Snapshot().Phase != Failed {
		t.Fatal("expected failure to stay visible")
	}
}

func TestSeedFillsOnlyZeroFields(t *testing.T) {
	var got loginValues
	f := New(func(ctx context.Context, v loginValues) (loginResult, error) {
		got = v
		return loginResult{}, nil
	})
	f.SetSeed(loginValues{Email: "seeded@b.nl", Password: "seeded"})

	if err := f.Submit(context.Background(), loginValues{Password: "typed"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if got.Email != "seeded@b.nl" {
		t.Fatalf("expected seed to fill empty email, got %q", got.Email)
	}
	if got.Password != "typed" {
		t.Fatalf("expected submitted password to win, got %q", got.Password)
	}
}

func TestSubscribeSeesPhaseSequence(t *testing.T) {
	f := succeedingForm()

	var mu sync.Mutex
	var phases []Phase
	cancel := f.Subscribe(func(s Snapshot[loginResult]) {
		mu.Lock()
		phases = append(phases, s.Phase)
		mu.Unlock()
	})
	defer cancel()

	if err := f.Submit(context.Background(), loginValues{}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(phases) != 2 || phases[0] != Submitting || phases[1] != Succeeded {
		t.Fatalf("expected [Submitting Succeeded], got %v", phases)
	}
}

func TestSubscribeCancelStopsNotifications(t *testing.T) {
	f := succeedingForm()

	var mu sync.Mutex
	var count int
	cancel := f.Subscribe(func(Snapshot[loginResult]) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	cancel()

	if err := f.Submit(context.Background(), loginValues{}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Fatalf("expected no notifications after cancel, got %d", count)
	}
}
