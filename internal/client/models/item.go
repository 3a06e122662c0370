package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dmitrijs2005/mitteie/internal/common"
)

// DefaultCurrency is applied when an item has no currency code.
const DefaultCurrency = common.DefaultCurrency

// Item is one belonging as stored by the server. Field names on the wire
// follow the server's schema.
type Item struct {
	ID           string    `json:"item_id" yaml:"item_id"`
	Name         string    `json:"navn" yaml:"name"`
	Category     *string   `json:"kategori,omitempty" yaml:"category,omitempty"`
	SerialNumber *string   `json:"serienummer,omitempty" yaml:"serial_number,omitempty"`
	Note         *string   `json:"notat,omitempty" yaml:"note,omitempty"`
	Value        *float64  `json:"verdi,omitempty" yaml:"value,omitempty"`
	Currency     string    `json:"valuta" yaml:"currency"`
	Attachments  []string  `json:"vedlegg_urls" yaml:"attachments"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// Input converts a stored item back into an editable form.
func (it Item) Input() ItemInput {
	in := ItemInput{
		Name:         it.Name,
		Category:     it.Category,
		SerialNumber: it.SerialNumber,
		Note:         it.Note,
		Value:        it.Value,
		Currency:     it.Currency,
	}
	in.Attachments = append([]string{}, it.Attachments...)
	return in
}

// ItemInput is the body of a create or update request.
type ItemInput struct {
	Name         string   `json:"navn"`
	Category     *string  `json:"kategori"`
	SerialNumber *string  `json:"serienummer"`
	Note         *string  `json:"notat"`
	Value        *float64 `json:"verdi"`
	Currency     string   `json:"valuta,omitempty"`
	Attachments  []string `json:"vedlegg_urls"`
}

// Validate checks the rules the server would otherwise reject: a name is
// required, a value must not be negative and attachments must be URLs.
func (in ItemInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.By(notBlank)),
		validation.Field(&in.Value, validation.Min(0.0)),
		validation.Field(&in.Currency, validation.Length(0, 3), is.UpperCase),
		validation.Field(&in.Attachments, validation.By(urlList)),
	)
}

// Normalized trims text fields, turns blank optionals into nil, defaults the
// currency and never leaves the attachment list nil.
func (in ItemInput) Normalized() ItemInput {
	out := in
	out.Name = strings.TrimSpace(in.Name)
	out.Category = trimOptional(in.Category)
	out.SerialNumber = trimOptional(in.SerialNumber)
	out.Note = trimOptional(in.Note)
	out.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if out.Currency == "" {
		out.Currency = DefaultCurrency
	}
	out.Attachments = make([]string, 0, len(in.Attachments))
	for _, u := range in.Attachments {
		if u = strings.TrimSpace(u); u != "" {
			out.Attachments = append(out.Attachments, u)
		}
	}
	return out
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func urlList(value interface{}) error {
	urls, _ := value.([]string)
	for _, u := range urls {
		if err := validation.Validate(u, validation.Required, is.URL); err != nil {
			return fmt.Errorf("%q: %v", u, err)
		}
	}
	return nil
}
