// internal/service/template_service.go
package service

import (
	"database/sql"
	"strings"

	appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
	"github.com/unclebandit/mailblast-backend/internal/model"
	"github.com/unclebandit/mailblast-backend/internal/render"
	"github.com/unclebandit/mailblast-backend/internal/repository"
)

// TemplateService covers the message-template CRUD surface.
type TemplateService struct {
	Repo repository.MessageTemplateRepositoryInterface
}

// TemplateWithPlaceholders reports which placeholders a template uses,
// plus a preview rendered against sample recipient data.
type TemplateWithPlaceholders struct {
	Template       *model.MessageTemplate `json:"template"`
	Placeholders   []string               `json:"placeholders"`
	PreviewSubject string                 `json:"preview_subject"`
	PreviewContent string                 `json:"preview_content"`
}

// sampleAddress is the stand-in recipient for template previews.
var sampleAddress = model.EmailAddress{
	LastName:   "Doe",
	FirstName:  "Jane",
	MiddleName: "M",
	Email:      "jane.doe@example.com",
}

func (s *TemplateService) ListTemplates() ([]model.MessageTemplate, error) {
	return s.Repo.List()
}

func (s *TemplateService) GetTemplate(id int) (*model.MessageTemplate, error) {
	template, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, appErrors.NewTemplateNotFound(id)
	}
	return template, nil
}

func (s *TemplateService) CreateTemplate(t *model.MessageTemplate) error {
	if err := s.validate(t); err != nil {
		return err
	}
	return s.Repo.Create(t)
}

func (s *TemplateService) UpdateTemplate(t *model.MessageTemplate) error {
	if err := s.validate(t); err != nil {
		return err
	}
	if err := s.Repo.Update(t); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewTemplateNotFound(t.ID)
		}
		return err
	}
	return nil
}

func (s *TemplateService) DeleteTemplate(id int) error {
	if err := s.Repo.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewTemplateNotFound(id)
		}
		return err
	}
	return nil
}

func (s *TemplateService) SearchTemplates(query string) ([]model.MessageTemplate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Repo.List()
	}
	return s.Repo.SearchByName(query)
}

func (s *TemplateService) GetTemplateStats() (map[string]int, error) {
	total, err := s.Repo.Count()
	if err != nil {
		return nil, err
	}
	return map[string]int{"total": total}, nil
}

// GetTemplateWithPlaceholders fetches a template and reports its
// placeholder usage with a sample-data preview.
func (s *TemplateService) GetTemplateWithPlaceholders(id int) (*TemplateWithPlaceholders, error) {
	template, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}

	used := render.UsedPlaceholders(template.Subject + " " + template.Content)
	return &TemplateWithPlaceholders{
		Template:       template,
		Placeholders:   used,
		PreviewSubject: render.Render(template.Subject, &sampleAddress),
		PreviewContent: render.Render(template.Content, &sampleAddress),
	}, nil
}

func (s *TemplateService) validate(t *model.MessageTemplate) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return appErrors.NewValidation("name is required")
	}
	if strings.TrimSpace(t.Subject) == "" {
		return appErrors.NewValidation("subject is required")
	}
	if strings.TrimSpace(t.Content) == "" {
		return appErrors.NewValidation("content is required")
	}
	return nil
}
