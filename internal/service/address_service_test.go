package service_test

import (
	"errors"
	"testing"

	appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
	"github.com/unclebandit/mailblast-backend/internal/model"
	"github.com/unclebandit/mailblast-backend/internal/service"
)

func TestCreateAddressValidation(t *testing.T) {
	svc := &service.AddressService{Repo: &MockAddressRepo{}}

	cases := []struct {
		name string
		addr model.EmailAddress
	}{
		{"missing last name", model.EmailAddress{FirstName: "Ann", Email: "a@example.com"}},
		{"missing first name", model.EmailAddress{LastName: "Lee", Email: "a@example.com"}},
		{"missing email", model.EmailAddress{LastName: "Lee", FirstName: "Ann"}},
		{"malformed email", model.EmailAddress{LastName: "Lee", FirstName: "Ann", Email: "not-an-email"}},
	}

	for _, tc := range cases {
		err := svc.CreateAddress(&tc.addr)
		var validation *appErrors.ErrValidation
		if !errors.As(err, &validation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateAddressDuplicateEmail(t *testing.T) {
	repo := &MockAddressRepo{EmailsTaken: map[string]bool{"ann@example.com": true}}
	svc := &service.AddressService{Repo: repo}

	err := svc.CreateAddress(&model.EmailAddress{
		LastName: "Lee", FirstName: "Ann", Email: "ann@example.com",
	})
	var validation *appErrors.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}
	if len(repo.Created) != 0 {
		t.Errorf("duplicate email must not be persisted")
	}
}

func TestCreateAddressTrimsAndPersists(t *testing.T) {
	repo := &MockAddressRepo{}
	svc := &service.AddressService{Repo: repo}

	addr := model.EmailAddress{
		LastName:  "  Lee ",
		FirstName: " Ann",
		Email:     "ann@example.com",
	}
	if err := svc.CreateAddress(&addr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.LastName != "Lee" || addr.FirstName != "Ann" {
		t.Errorf("expected trimmed names, got %q %q", addr.LastName, addr.FirstName)
	}
	if len(repo.Created) != 1 {
		t.Errorf("expected one created row")
	}
}

func TestGetAddressNotFound(t *testing.T) {
	svc := &service.AddressService{Repo: &MockAddressRepo{}}

	_, err := svc.GetAddress(42)
	var notFound *appErrors.ErrAddressNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrAddressNotFound, got %v", err)
	}
}
