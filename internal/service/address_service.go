// internal/service/address_service.go
package service

import (
	"database/sql"
	"net/mail"
	"strings"

	appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
	"github.com/unclebandit/mailblast-backend/internal/model"
	"github.com/unclebandit/mailblast-backend/internal/repository"
)

// AddressService covers the recipient-address CRUD surface.
type AddressService struct {
	Repo repository.EmailAddressRepositoryInterface
}

func (s *AddressService) ListAddresses() ([]model.EmailAddress, error) {
	return s.Repo.List()
}

func (s *AddressService) GetAddress(id int) (*model.EmailAddress, error) {
	addr, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, appErrors.NewAddressNotFound(id)
	}
	return addr, nil
}

func (s *AddressService) CreateAddress(a *model.EmailAddress) error {
	if err := s.validate(a); err != nil {
		return err
	}
	taken, err := s.Repo.EmailExists(a.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return appErrors.NewValidation("email %s is already registered", a.Email)
	}
	return s.Repo.Create(a)
}

func (s *AddressService) UpdateAddress(a *model.EmailAddress) error {
	if err := s.validate(a); err != nil {
		return err
	}
	taken, err := s.Repo.EmailExists(a.Email, a.ID)
	if err != nil {
		return err
	}
	if taken {
		return appErrors.NewValidation("email %s is already registered", a.Email)
	}
	if err := s.Repo.Update(a); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewAddressNotFound(a.ID)
		}
		return err
	}
	return nil
}

func (s *AddressService) DeleteAddress(id int) error {
	if err := s.Repo.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewAddressNotFound(id)
		}
		return err
	}
	return nil
}

func (s *AddressService) SearchAddresses(query string) ([]model.EmailAddress, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Repo.List()
	}
	return s.Repo.Search(query)
}

func (s *AddressService) GetAddressStats() (map[string]int, error) {
	total, err := s.Repo.Count()
	if err != nil {
		return nil, err
	}
	return map[string]int{"total": total}, nil
}

func (s *AddressService) validate(a *model.EmailAddress) error {
	a.LastName = strings.TrimSpace(a.LastName)
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.MiddleName = strings.TrimSpace(a.MiddleName)
	a.Email = strings.TrimSpace(a.Email)

	if a.LastName == "" {
		return appErrors.NewValidation("last_name is required")
	}
	if a.FirstName == "" {
		return appErrors.NewValidation("first_name is required")
	}
	if a.Email == "" {
		return appErrors.NewValidation("email is required")
	}
	if parsed, err := mail.ParseAddress(a.Email); err != nil || parsed.Address != a.Email {
		return appErrors.NewValidation("email %q is not a valid address", a.Email)
	}
	return nil
}
