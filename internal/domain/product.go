package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// BrandAttributeCode is the attribute code holding a product's brand
const BrandAttributeCode = "brand"

// Attribute is a single code/value pair describing a product or variant
type Attribute struct {
	Code  string `json:"attribute_code"`
	Value string `json:"attribute_value"`
}

// AttributeList is the ordered attribute representation used on products
type AttributeList []Attribute

// AttributeMap is the keyed attribute representation used on variants for matching
type AttributeMap map[string]Attribute

// ToMap indexes the list by attribute code. The last occurrence of a code wins.
func (l AttributeList) ToMap() AttributeMap {
	m := make(AttributeMap, len(l))
	for _, attr := range l {
		m[attr.Code] = attr
	}
	return m
}

// ToList flattens the map into a list ordered by attribute code
func (m AttributeMap) ToList() AttributeList {
	list := make(AttributeList, 0, len(m))
	for _, attr := range m {
		list = append(list, attr)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// ConfigurableOption is one axis of product configurability (e.g. color, size)
type ConfigurableOption struct {
	Code   string   `json:"attribute_code"`
	Label  string   `json:"label,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Product is the purchasable item carried by a variant
type Product struct {
	SKU        string            `json:"sku"`
	Name       string            `json:"name,omitempty"`
	Attributes AttributeList     `json:"attributes"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// Variant is one concrete combination of configurable option values.
// Attributes is keyed by option code and is what selections are matched against;
// Product.Attributes is the plain list parameters are extracted from.
type Variant struct {
	Attributes AttributeMap `json:"attributes"`
	Product    Product      `json:"product"`
}

// ConfigurableProduct is a catalog entry with its configurable options and variants
type ConfigurableProduct struct {
	SKU                 string               `json:"sku"`
	Name                string               `json:"name"`
	Attributes          AttributeList        `json:"attributes"`
	ConfigurableOptions []ConfigurableOption `json:"configurable_options"`
	Variants            []Variant            `json:"variants"`
}

// OptionConstraint restricts one attribute to either an exact value or a set of values
type OptionConstraint struct {
	values []string
	exact  bool
}

// Exactly builds a constraint satisfied only by value (case-sensitive)
func Exactly(value string) OptionConstraint {
	return OptionConstraint{values: []string{value}, exact: true}
}

// OneOf builds a constraint satisfied by any of values
func OneOf(values ...string) OptionConstraint {
	return OptionConstraint{values: append([]string(nil), values...)}
}

// IsExact reports whether the constraint requires a single exact value
func (c OptionConstraint) IsExact() bool {
	return c.exact
}

// Values returns a copy of the acceptable values
func (c OptionConstraint) Values() []string {
	return append([]string(nil), c.values...)
}

// Allows reports whether value satisfies the constraint
func (c OptionConstraint) Allows(value string) bool {
	if c.exact {
		return len(c.values) == 1 && c.values[0] == value
	}
	for _, v := range c.values {
		if v == value {
			return true
		}
	}
	return false
}

// MarshalJSON encodes exact constraints as a string and sets as an array
func (c OptionConstraint) MarshalJSON() ([]byte, error) {
	if c.exact {
		return json.Marshal(c.values[0])
	}
	if c.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.values)
}

// UnmarshalJSON accepts either a string or an array of strings
func (c *OptionConstraint) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = Exactly(v)
		return nil
	}
	var vs []string
	if err := json.Unmarshal(data, &vs); err != nil {
		return fmt.Errorf("option constraint must be a string or an array of strings: %w", err)
	}
	*c = OneOf(vs...)
	return nil
}

// Selection maps attribute codes to the constraint chosen for them
type Selection map[string]OptionConstraint

// Codes returns the selection's attribute codes in sorted order
func (s Selection) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// VariantIndex is the position of a matched variant, or no match
type VariantIndex struct {
	index int
	found bool
}

// NoVariant is the VariantIndex returned when nothing matches
var NoVariant = VariantIndex{index: -1}

// VariantAt returns a found VariantIndex for position i
func VariantAt(i int) VariantIndex {
	return VariantIndex{index: i, found: true}
}

// Get returns the index and whether a variant was matched
func (v VariantIndex) Get() (int, bool) {
	return v.index, v.found
}

// Found reports whether a variant was matched
func (v VariantIndex) Found() bool {
	return v.found
}

func (v VariantIndex) String() string {
	if !v.found {
		return "none"
	}
	return fmt.Sprintf("%d", v.index)
}

// MarshalJSON encodes a missing index as null
func (v VariantIndex) MarshalJSON() ([]byte, error) {
	if !v.found {
		return []byte("null"), nil
	}
	return json.Marshal(v.index)
}
