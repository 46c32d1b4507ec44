package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain"
)

func attrs(pairs ...string) domain.AttributeList {
	list := make(domain.AttributeList, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		list = append(list, domain.Attribute{Code: pairs[i], Value: pairs[i+1]})
	}
	return list
}

func variant(sku string, pairs ...string) domain.Variant {
	list := attrs(pairs...)
	return domain.Variant{
		Attributes: list.ToMap(),
		Product: domain.Product{
			SKU:        sku,
			Attributes: append(list, domain.Attribute{Code: "material", Value: "cotton"}),
		},
	}
}

func shirtVariants() []domain.Variant {
	return []domain.Variant{
		variant("shirt-red-s", "color", "red", "size", "S"),
		variant("shirt-red-m", "color", "red", "size", "M"),
		variant("shirt-blue-m", "color", "blue", "size", "M"),
		variant("shirt-blue-l", "color", "blue", "size", "L"),
	}
}

func TestCheckEveryOption(t *testing.T) {
	attributes := attrs("color", "red", "size", "M").ToMap()

	tests := []struct {
		name      string
		selection domain.Selection
		want      bool
	}{
		{
			name:      "exact match",
			selection: domain.Selection{"color": domain.Exactly("red")},
			want:      true,
		},
		{
			name:      "exact match is case-sensitive",
			selection: domain.Selection{"color": domain.Exactly("Red")},
			want:      false,
		},
		{
			name:      "set membership",
			selection: domain.Selection{"size": domain.OneOf("S", "M")},
			want:      true,
		},
		{
			name:      "set without value",
			selection: domain.Selection{"size": domain.OneOf("L", "XL")},
			want:      false,
		},
		{
			name: "every constraint must hold",
			selection: domain.Selection{
				"color": domain.Exactly("red"),
				"size":  domain.OneOf("L"),
			},
			want: false,
		},
		{
			name:      "empty selection matches anything",
			selection: domain.Selection{},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkEveryOption(attributes, tt.selection)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing attribute code is a typed error", func(t *testing.T) {
		_, err := checkEveryOption(attributes, domain.Selection{"fit": domain.Exactly("slim")})

		var missing *domain.MissingAttributeError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "fit", missing.Code)
		assert.True(t, errors.Is(err, domain.ErrMissingAttribute))
	})
}

func TestGenerateParameters(t *testing.T) {
	t.Run("keeps only required codes", func(t *testing.T) {
		got := GenerateParameters(attrs("color", "red", "size", "M"), []string{"color"})
		assert.Equal(t, map[string]string{"color": "red"}, got)
	})

	t.Run("required codes absent from attributes are skipped", func(t *testing.T) {
		got := GenerateParameters(attrs("color", "red"), []string{"color", "size"})
		assert.Equal(t, map[string]string{"color": "red"}, got)
	})

	t.Run("last duplicate wins", func(t *testing.T) {
		got := GenerateParameters(attrs("color", "red", "color", "green"), []string{"color"})
		assert.Equal(t, map[string]string{"color": "green"}, got)
	})

	t.Run("empty inputs give an empty map", func(t *testing.T) {
		got := GenerateParameters(nil, nil)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("result holds exactly the intersection of codes", func(t *testing.T) {
		list := attrs("color", "red", "size", "M", "brand", "Acme", "fit", "slim")
		required := []string{"size", "fit", "length"}

		got := GenerateParameters(list, required)

		assert.Len(t, got, 2)
		assert.Equal(t, "M", got["size"])
		assert.Equal(t, "slim", got["fit"])
		assert.NotContains(t, got, "color")
		assert.NotContains(t, got, "length")
	})
}

func TestGetVariantWithParams(t *testing.T) {
	in := variant("shirt-red-m", "color", "red", "size", "M")

	out := GetVariantWithParams(in, []string{"color", "size"})

	assert.Equal(t, map[string]string{"color": "red", "size": "M"}, out.Product.Parameters)
	assert.Equal(t, in.Product.SKU, out.Product.SKU)
	assert.Equal(t, in.Product.Attributes, out.Product.Attributes)
	assert.Nil(t, in.Product.Parameters, "input product must not gain parameters")
}

func TestGetVariantsWithParams(t *testing.T) {
	options := []domain.ConfigurableOption{{Code: "color"}, {Code: "size"}}

	t.Run("enriches every variant in order", func(t *testing.T) {
		variants := shirtVariants()

		got := GetVariantsWithParams(variants, options)

		require.Len(t, got, len(variants))
		for i := range variants {
			assert.Equal(t, variants[i].Product.SKU, got[i].Product.SKU)
			assert.Equal(t,
				GenerateParameters(variants[i].Product.Attributes, []string{"color", "size"}),
				got[i].Product.Parameters)
			assert.NotContains(t, got[i].Product.Parameters, "material")
		}
	})

	t.Run("does not mutate its inputs", func(t *testing.T) {
		variants := shirtVariants()
		before := shirtVariants()
		optionsBefore := append([]domain.ConfigurableOption(nil), options...)

		_ = GetVariantsWithParams(variants, options)

		assert.Equal(t, before, variants)
		assert.Equal(t, optionsBefore, options)
	})

	t.Run("duplicate option codes are tolerated", func(t *testing.T) {
		dup := []domain.ConfigurableOption{{Code: "color"}, {Code: "color"}}
		assert.Equal(t, []string{"color", "color"}, requiredParameterCodes(dup))

		got := GetVariantsWithParams(shirtVariants()[:1], dup)
		assert.Equal(t, map[string]string{"color": "red"}, got[0].Product.Parameters)
	})

	t.Run("empty variant list", func(t *testing.T) {
		got := GetVariantsWithParams(nil, options)
		assert.Empty(t, got)
	})
}

func TestGetVariantIndex(t *testing.T) {
	variants := shirtVariants()

	tests := []struct {
		name      string
		selection domain.Selection
		wantIndex int
		wantFound bool
	}{
		{
			name:      "single exact match",
			selection: domain.Selection{"color": domain.Exactly("blue"), "size": domain.Exactly("L")},
			wantIndex: 3,
			wantFound: true,
		},
		{
			name:      "first of several matches",
			selection: domain.Selection{"size": domain.Exactly("M")},
			wantIndex: 1,
			wantFound: true,
		},
		{
			name:      "set constraint picks lowest index",
			selection: domain.Selection{"color": domain.OneOf("blue", "red"), "size": domain.OneOf("M", "L")},
			wantIndex: 1,
			wantFound: true,
		},
		{
			name:      "no match",
			selection: domain.Selection{"color": domain.Exactly("green")},
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetVariantIndex(variants, tt.selection)
			require.NoError(t, err)

			idx, found := got.Get()
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantIndex, idx)
			} else {
				assert.Equal(t, domain.NoVariant, got)
			}
		})
	}

	t.Run("empty variant list never matches", func(t *testing.T) {
		got, err := GetVariantIndex(nil, domain.Selection{"color": domain.Exactly("red")})
		require.NoError(t, err)
		assert.False(t, got.Found())
	})

	t.Run("reports the variant missing a selected code", func(t *testing.T) {
		broken := append(shirtVariants()[:1], domain.Variant{
			Attributes: attrs("color", "red").ToMap(),
		})

		_, err := GetVariantIndex(broken, domain.Selection{"color": domain.Exactly("red"), "size": domain.Exactly("XL")})

		var missing *domain.MissingAttributeError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, 1, missing.Position)
		assert.Equal(t, "size", missing.Code)
	})

	t.Run("a match before the malformed variant wins", func(t *testing.T) {
		list := append(shirtVariants()[:1], domain.Variant{Attributes: domain.AttributeMap{}})

		got, err := GetVariantIndex(list, domain.Selection{"color": domain.Exactly("red")})
		require.NoError(t, err)
		assert.Equal(t, domain.VariantAt(0), got)
	})
}

func TestGetBrand(t *testing.T) {
	t.Run("returns the brand value", func(t *testing.T) {
		brand, err := GetBrand(attrs("brand", "Nike", "color", "red"))
		require.NoError(t, err)
		assert.Equal(t, "Nike", brand)
	})

	t.Run("first brand wins", func(t *testing.T) {
		brand, err := GetBrand(attrs("color", "red", "brand", "Nike", "brand", "Adidas"))
		require.NoError(t, err)
		assert.Equal(t, "Nike", brand)
	})

	t.Run("missing brand", func(t *testing.T) {
		_, err := GetBrand(attrs("color", "red"))
		assert.ErrorIs(t, err, domain.ErrBrandNotFound)
	})
}
