package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/JovelRamos/myfi-server/internal/errors"
	"github.com/JovelRamos/myfi-server/internal/validation"
)

type recommendRequest struct {
	UserID    string   `json:"user_id" validate:"omitempty,min=1"`
	AnchorIDs []string `json:"anchor_ids" validate:"required,min=1,dive,required"`
	Limit     int      `json:"limit" validate:"gte=0,lte=100"`
}

func TestValidatePasses(t *testing.T) {
	v := validation.New()

	err := v.Validate(recommendRequest{
		AnchorIDs: []string{"bk1", "bk2"},
		Limit:     10,
	})
	assert.NoError(t, err)
}

func TestValidateReportsFieldsByJSONName(t *testing.T) {
	v := validation.New()

	err := v.Validate(recommendRequest{Limit: 500})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "anchor_ids")
	assert.Contains(t, details, "limit")
	assert.Equal(t, "is required", details["anchor_ids"])
}

func TestValidateEmptyAnchorElement(t *testing.T) {
	v := validation.New()

	err := v.Validate(recommendRequest{AnchorIDs: []string{"bk1", ""}})
	assert.Error(t, err)
}
