package usecase

import (
	"errors"

	"github.com/samber/lo"

	"github.com/storefront/backend/internal/domain"
)

// checkEveryOption reports whether the attributes satisfy every constraint in the selection.
// A selected code absent from attrs yields a *domain.MissingAttributeError.
func checkEveryOption(attrs domain.AttributeMap, selection domain.Selection) (bool, error) {
	// Sorted codes keep the reported missing code stable across runs.
	for _, code := range selection.Codes() {
		attr, ok := attrs[code]
		if !ok {
			return false, &domain.MissingAttributeError{Code: code}
		}
		if !selection[code].Allows(attr.Value) {
			return false, nil
		}
	}
	return true, nil
}

// GenerateParameters maps attribute codes to values, keeping only the required codes.
// When a code repeats in attrs, the last occurrence wins.
func GenerateParameters(attrs domain.AttributeList, required []string) map[string]string {
	keep := lo.Filter(attrs, func(attr domain.Attribute, _ int) bool {
		return lo.Contains(required, attr.Code)
	})
	return lo.Associate(keep, func(attr domain.Attribute) (string, string) {
		return attr.Code, attr.Value
	})
}

// GetVariantWithParams returns a copy of variant whose product carries the parameters
// extracted from its own attributes. The input is not modified.
func GetVariantWithParams(variant domain.Variant, required []string) domain.Variant {
	product := variant.Product
	product.Parameters = GenerateParameters(variant.Product.Attributes, required)
	variant.Product = product
	return variant
}

// GetVariantsWithParams enriches every variant with parameters restricted to the
// configurable option codes, preserving order.
func GetVariantsWithParams(variants []domain.Variant, options []domain.ConfigurableOption) []domain.Variant {
	required := requiredParameterCodes(options)
	return lo.Map(variants, func(v domain.Variant, _ int) domain.Variant {
		return GetVariantWithParams(v, required)
	})
}

// requiredParameterCodes keeps option order and duplicates
func requiredParameterCodes(options []domain.ConfigurableOption) []string {
	return lo.Map(options, func(opt domain.ConfigurableOption, _ int) string {
		return opt.Code
	})
}

// GetVariantIndex returns the index of the first variant whose attributes satisfy the
// selection, or domain.NoVariant. Scanning stops at the first variant missing a
// selected attribute code.
func GetVariantIndex(variants []domain.Variant, selection domain.Selection) (domain.VariantIndex, error) {
	for i, v := range variants {
		ok, err := checkEveryOption(v.Attributes, selection)
		if err != nil {
			var missing *domain.MissingAttributeError
			if errors.As(err, &missing) {
				missing.Position = i
			}
			return domain.NoVariant, err
		}
		if ok {
			return domain.VariantAt(i), nil
		}
	}
	return domain.NoVariant, nil
}

// GetBrand returns the value of the first "brand" attribute
func GetBrand(attrs domain.AttributeList) (string, error) {
	attr, ok := lo.Find(attrs, func(a domain.Attribute) bool {
		return a.Code == domain.BrandAttributeCode
	})
	if !ok {
		return "", domain.ErrBrandNotFound
	}
	return attr.Value, nil
}
