package catalog

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/storefront/backend/internal/domain"
)

// Document is a catalog file: a list of products in upstream wire format
type Document struct {
	Products []ProductDocument `json:"products"`
}

// ProductDocument is a configurable product as returned by the upstream catalog API
type ProductDocument struct {
	SKU                 string              `json:"sku"`
	Name                string              `json:"name"`
	Attributes          []AttributeDocument `json:"attributes"`
	ConfigurableOptions []OptionDocument    `json:"configurable_options"`
	Variants            []VariantDocument   `json:"variants"`
}

// AttributeDocument is a plain code/value attribute
type AttributeDocument struct {
	Code  string `json:"attribute_code"`
	Value string `json:"attribute_value"`
}

// OptionDocument describes one configurable option and its selectable values
type OptionDocument struct {
	Code   string                `json:"attribute_code"`
	Label  string                `json:"label"`
	Values []OptionValueDocument `json:"values"`
}

// OptionValueDocument is one selectable value of an option
type OptionValueDocument struct {
	ValueIndex *int   `json:"value_index,omitempty"`
	Label      string `json:"label"`
}

// VariantAttributeDocument is a variant's value for one configurable option
type VariantAttributeDocument struct {
	Code       string `json:"code"`
	ValueIndex *int   `json:"value_index,omitempty"`
	Label      string `json:"label"`
}

// VariantDocument is one variant in wire format
type VariantDocument struct {
	Attributes []VariantAttributeDocument `json:"attributes"`
	Product    VariantProductDocument     `json:"product"`
}

// VariantProductDocument is the simple product behind a variant
type VariantProductDocument struct {
	SKU        string              `json:"sku"`
	Name       string              `json:"name"`
	Attributes []AttributeDocument `json:"attributes"`
}

// ToDomainProduct converts a wire product into the domain model.
// Variant attribute lists become code-keyed maps; duplicates resolve last-wins.
func ToDomainProduct(doc *ProductDocument) *domain.ConfigurableProduct {
	return &domain.ConfigurableProduct{
		SKU:        doc.SKU,
		Name:       doc.Name,
		Attributes: toAttributeList(doc.Attributes),
		ConfigurableOptions: lo.Map(doc.ConfigurableOptions, func(o OptionDocument, _ int) domain.ConfigurableOption {
			return domain.ConfigurableOption{
				Code:  o.Code,
				Label: o.Label,
				Values: lo.Map(o.Values, func(v OptionValueDocument, _ int) string {
					return optionValue(v.ValueIndex, v.Label)
				}),
			}
		}),
		Variants: lo.Map(doc.Variants, func(v VariantDocument, _ int) domain.Variant {
			return toVariant(v)
		}),
	}
}

func toVariant(v VariantDocument) domain.Variant {
	attrs := lo.Map(v.Attributes, func(a VariantAttributeDocument, _ int) domain.Attribute {
		return domain.Attribute{Code: a.Code, Value: optionValue(a.ValueIndex, a.Label)}
	})
	return domain.Variant{
		Attributes: domain.AttributeList(attrs).ToMap(),
		Product: domain.Product{
			SKU:        v.Product.SKU,
			Name:       v.Product.Name,
			Attributes: toAttributeList(v.Product.Attributes),
		},
	}
}

func toAttributeList(docs []AttributeDocument) domain.AttributeList {
	return lo.Map(docs, func(a AttributeDocument, _ int) domain.Attribute {
		return domain.Attribute{Code: a.Code, Value: a.Value}
	})
}

// optionValue prefers the numeric value index, which is what simple products
// store as their attribute_value; the label is used when no index is sent.
func optionValue(valueIndex *int, label string) string {
	if valueIndex != nil {
		return strconv.Itoa(*valueIndex)
	}
	return label
}
