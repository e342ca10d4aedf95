package treasury

import (
	"sync"
	"testing"
)

var testCategories = []string{"Medical AI", "Autonomous Driving", "Content Moderation"}

func TestAddFunds(t *testing.T) {
	s := NewStore(testCategories, 0)

	bal, err := s.AddFunds("Medical AI", 500)
	if err != nil {
		t.Fatal(err)
	}
	if bal != 500 {
		t.Fatalf("balance %d, expected 500", bal)
	}

	if _, err := s.AddFunds("Gaming", 100); err != ErrInvalidCategory {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := s.AddFunds("Medical AI", 0); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := s.AddFunds("Medical AI", -10); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDeductFunds(t *testing.T) {
	s := NewStore(testCategories, 50)

	// insufficient: balance unchanged
	if s.DeductFunds("Medical AI", 100) {
		t.Fatal("deduction over balance succeeded")
	}
	bal, _ := s.Balance("Medical AI")
	if bal != 50 {
		t.Fatalf("failed deduction changed balance to %d", bal)
	}

	if !s.DeductFunds("Medical AI", 30) {
		t.Fatal("covered deduction failed")
	}
	bal, _ = s.Balance("Medical AI")
	if bal != 20 {
		t.Fatalf("balance %d, expected 20", bal)
	}

	if s.DeductFunds("Gaming", 1) {
		t.Fatal("deduction from unknown category succeeded")
	}
	if s.DeductFunds("Medical AI", 0) {
		t.Fatal("zero deduction succeeded")
	}
}

func TestConcurrentDeduct(t *testing.T) {
	s := NewStore(testCategories, 100)

	var wg sync.WaitGroup
	results := make([]bool, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.DeductFunds("Content Moderation", 80)
		}(i)
	}
	wg.Wait()

	if results[0] == results[1] {
		t.Fatalf("expected exactly one success, got %v and %v", results[0], results[1])
	}

	bal, _ := s.Balance("Content Moderation")
	if bal != 20 {
		t.Fatalf("final balance %d, expected 20", bal)
	}
}

func TestBalancesSnapshot(t *testing.T) {
	s := NewStore(testCategories, 10)

	snap := s.Balances()
	snap["Medical AI"] = 9999

	bal, _ := s.Balance("Medical AI")
	if bal != 10 {
		t.Fatal("snapshot mutation leaked into the store")
	}
}
