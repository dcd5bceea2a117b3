package pos

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// CatalogEntity is the terminal-side projection of a referenced catalog
// aggregate such as a brand: its identity, display name, and the custom
// attributes the load projection carried
type CatalogEntity struct {
	ID         uuid.UUID
	Name       string
	Attributes attribute.Set
}

// ProductRecord is the terminal-side projection of a sellable item. The
// brand reference is normalized on decode; scalar custom attributes stay
// in the attribute set keyed by the product registry
type ProductRecord struct {
	ID         uuid.UUID
	Name       string
	Unit       string
	Price      valueobject.Money
	Brand      BrandRef
	Attributes attribute.Set
}

// Code returns the product's code attribute, or empty when the load
// projection did not carry it
func (p ProductRecord) Code() string {
	if v, ok := p.Attributes.Get(attribute.KeyCode); ok {
		if s, ok := v.StringVal(); ok {
			return s
		}
	}
	return ""
}

// DecodeBrandRecord maps one flat load record onto a CatalogEntity.
// Records missing an id are rejected; missing projection fields decode
// to their declared defaults
func DecodeBrandRecord(reg *attribute.Registry, rec catalog.FlatRecord) (CatalogEntity, error) {
	id, err := recordID(rec)
	if err != nil {
		return CatalogEntity{}, fmt.Errorf("failed to decode brand record: %w", err)
	}

	entity := CatalogEntity{
		ID:         id,
		Name:       recordString(rec, "name"),
		Attributes: attribute.NewSet(),
	}
	for _, spec := range reg.DeclaredAttributes(attribute.KindBrand) {
		v, ok, err := decodeScalar(spec, rec)
		if err != nil {
			return CatalogEntity{}, fmt.Errorf("failed to decode brand record %s: %w", id, err)
		}
		if ok {
			entity.Attributes.Put(spec.Key, v)
		}
	}
	return entity, nil
}

// DecodeProductRecord maps one flat load record onto a ProductRecord,
// normalizing the brand reference from whichever shape the record carries
func DecodeProductRecord(reg *attribute.Registry, rec catalog.FlatRecord) (ProductRecord, error) {
	id, err := recordID(rec)
	if err != nil {
		return ProductRecord{}, fmt.Errorf("failed to decode product record: %w", err)
	}

	record := ProductRecord{
		ID:         id,
		Name:       recordString(rec, "name"),
		Unit:       recordString(rec, "unit"),
		Attributes: attribute.NewSet(),
	}
	if record.Unit == "" {
		record.Unit = valueobject.UnitEach
	}

	if raw, ok := rec["price"]; ok && raw != nil {
		price, err := decodeMoney(raw)
		if err != nil {
			return ProductRecord{}, fmt.Errorf("failed to decode product record %s: %w", id, err)
		}
		record.Price = price
	} else {
		record.Price = valueobject.ZeroUSD()
	}

	for _, spec := range reg.DeclaredAttributes(attribute.KindProduct) {
		if spec.Kind == attribute.ValueRef {
			ref, err := decodeBrandRef(rec, spec.Key)
			if err != nil {
				return ProductRecord{}, fmt.Errorf("failed to decode product record %s: %w", id, err)
			}
			record.Brand = ref
			continue
		}
		v, ok, err := decodeScalar(spec, rec)
		if err != nil {
			return ProductRecord{}, fmt.Errorf("failed to decode product record %s: %w", id, err)
		}
		if ok {
			record.Attributes.Put(spec.Key, v)
		}
	}
	return record, nil
}

func recordID(rec catalog.FlatRecord) (uuid.UUID, error) {
	raw, ok := rec["id"]
	if !ok || raw == nil {
		return uuid.Nil, fmt.Errorf("record has no id")
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("record id has unexpected type %T", raw)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("record id %q is not a uuid: %w", s, err)
	}
	return id, nil
}

func recordString(rec catalog.FlatRecord, field string) string {
	if raw, ok := rec[field]; ok && raw != nil {
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// decodeBrandRef accepts the bare-id form the bulk load emits as well as
// the {"id","name"} pair form snapshots round-trip through JSON decoding
func decodeBrandRef(rec catalog.FlatRecord, field string) (BrandRef, error) {
	raw, ok := rec[field]
	if !ok || raw == nil {
		raw, ok = rec["brand_id"]
		if !ok || raw == nil {
			return BrandRef{}, nil
		}
	}
	switch v := raw.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return BrandRef{}, fmt.Errorf("brand reference %q is not a uuid: %w", v, err)
		}
		return BrandRefFromID(id), nil
	case map[string]any:
		idRaw, ok := v["id"].(string)
		if !ok {
			return BrandRef{}, fmt.Errorf("brand reference pair has no id")
		}
		id, err := uuid.Parse(idRaw)
		if err != nil {
			return BrandRef{}, fmt.Errorf("brand reference %q is not a uuid: %w", idRaw, err)
		}
		if name, ok := v["name"].(string); ok {
			return BrandRefFromPair(id, name), nil
		}
		return BrandRefFromID(id), nil
	default:
		return BrandRef{}, fmt.Errorf("brand reference has unexpected type %T", raw)
	}
}

func decodeScalar(spec attribute.Spec, rec catalog.FlatRecord) (attribute.Value, bool, error) {
	raw, ok := rec[spec.Key]
	if !ok || raw == nil {
		return attribute.Value{}, false, nil
	}
	switch spec.Kind {
	case attribute.ValueString:
		s, ok := raw.(string)
		if !ok {
			return attribute.Value{}, false, fmt.Errorf("attribute %q has unexpected type %T", spec.Key, raw)
		}
		return attribute.String(s), true, nil
	case attribute.ValueBool:
		b, ok := raw.(bool)
		if !ok {
			return attribute.Value{}, false, fmt.Errorf("attribute %q has unexpected type %T", spec.Key, raw)
		}
		return attribute.Bool(b), true, nil
	default:
		return attribute.Value{}, false, fmt.Errorf("attribute %q has unsupported load kind %s", spec.Key, spec.Kind)
	}
}

func decodeMoney(raw any) (valueobject.Money, error) {
	switch v := raw.(type) {
	case float64:
		return valueobject.NewMoneyUSDFromFloat(v), nil
	case string:
		return valueobject.NewMoneyFromString(v, valueobject.DefaultCurrency)
	default:
		return valueobject.Money{}, fmt.Errorf("price has unexpected type %T", raw)
	}
}
