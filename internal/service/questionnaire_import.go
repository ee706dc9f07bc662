package service

import (
	"context"
	"fmt"
	"interrogator/internal/model"
	"io"

	"gopkg.in/yaml.v3"
)

// QuestionnaireDefinition is a declarative section tree, usually loaded from
// YAML to seed a fresh database.
type QuestionnaireDefinition struct {
	Sections []SectionDefinition `yaml:"sections"`
}

type SectionDefinition struct {
	Name    string                 `yaml:"name"`
	Class   string                 `yaml:"class"`
	Team    *uint                  `yaml:"team"`
	Options map[string]interface{} `yaml:"options"`
	Groups  []GroupDefinition      `yaml:"groups"`
}

type GroupDefinition struct {
	Name      string                 `yaml:"name"`
	Options   map[string]interface{} `yaml:"options"`
	Questions []QuestionDefinition   `yaml:"questions"`
}

type QuestionDefinition struct {
	Name        string                 `yaml:"name"`
	Type        string                 `yaml:"type"`
	Options     map[string]interface{} `yaml:"options"`
	Choices     []string               `yaml:"choices"`
	AllowsOther bool                   `yaml:"allows_other"`
}

func ParseQuestionnaire(r io.Reader) (*QuestionnaireDefinition, error) {
	var def QuestionnaireDefinition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("parse questionnaire: %w", err)
	}
	return &def, nil
}

// Import creates every section of the definition with its groups and
// questions. Groups and questions belong to their section's team.
func (s *Interrogator) Import(ctx context.Context, def *QuestionnaireDefinition) ([]model.Section, error) {
	var created []model.Section
	err := s.transaction(ctx, func(tx *Interrogator) error {
		for _, sd := range def.Sections {
			section, err := tx.importSection(ctx, sd)
			if err != nil {
				return fmt.Errorf("section %q: %w", sd.Name, err)
			}
			created = append(created, *section)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Interrogator) importSection(ctx context.Context, sd SectionDefinition) (*model.Section, error) {
	opts, err := model.OptionsFrom(sd.Options)
	if err != nil {
		return nil, err
	}
	tenant := model.TenantFromColumn(sd.Team)
	section, err := s.CreateSection(ctx, SectionParams{Name: sd.Name, ClassName: sd.Class, Options: opts, Tenant: tenant})
	if err != nil {
		return nil, err
	}

	for _, gd := range sd.Groups {
		gopts, err := model.OptionsFrom(gd.Options)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", gd.Name, err)
		}
		group, err := s.CreateGroup(ctx, GroupParams{Name: gd.Name, Section: model.Of(section), Options: gopts, Tenant: tenant})
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", gd.Name, err)
		}

		for _, qd := range gd.Questions {
			qopts, err := model.OptionsFrom(qd.Options)
			if err != nil {
				return nil, fmt.Errorf("question %q: %w", qd.Name, err)
			}
			question, err := s.CreateQuestion(ctx, QuestionParams{
				Name:    qd.Name,
				Type:    model.ParseRef[model.QuestionType](qd.Type),
				Group:   model.Of(group),
				Options: qopts,
				Choices: qd.Choices,
				Tenant:  tenant,
			})
			if err != nil {
				return nil, fmt.Errorf("question %q: %w", qd.Name, err)
			}
			if qd.AllowsOther {
				if err := s.setAllowsOther(ctx, question, true); err != nil {
					return nil, err
				}
			}
		}
	}
	return section, nil
}
