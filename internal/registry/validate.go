package registry

import (
	"fmt"

	"github.com/roach88/provgraph/internal/metrics"
	"github.com/roach88/provgraph/internal/schema"
)

// ValidateAssignment checks that an entity of class entityType may carry
// value v under property prop. It returns nil, *UnknownPropertyError,
// *UnknownClassError, *DomainError or *RangeError.
//
// A DomainError with Warn set is returned only when the range check
// passed: the caller reports it and keeps the assignment.
func (r *Registry) ValidateAssignment(entityType, prop string, v Value) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	err := r.validateLocked(entityType, prop, v)
	r.record(err)
	return err
}

func (r *Registry) validateLocked(entityType, prop string, v Value) error {
	if _, reserved := reservedRanks[prop]; reserved {
		return &UnknownPropertyError{Class: entityType, Property: prop, Reserved: true}
	}
	p, ok := r.props[prop]
	if !ok {
		return &UnknownPropertyError{Class: entityType, Property: prop}
	}
	ci, ok := r.classByName[entityType]
	if !ok {
		return &UnknownClassError{Class: entityType}
	}

	var domainErr *DomainError
	if p.domain >= 0 {
		if _, ok := r.classes[ci].ancestors[p.domain]; !ok {
			domainErr = &DomainError{
				Class:    entityType,
				Property: prop,
				Domain:   r.classes[p.domain].name,
				Warn:     p.usage == schema.UsageWarn,
			}
			if !domainErr.Warn {
				return domainErr
			}
		}
	}

	if err := r.checkRange(entityType, p, v); err != nil {
		return err
	}
	if domainErr != nil {
		return domainErr
	}
	return nil
}

func (r *Registry) checkRange(entityType string, p *propNode, v Value) error {
	if v == nil {
		return &RangeError{Class: entityType, Property: p.name, Range: r.rangeName(p), Got: "nil"}
	}
	kind := v.ValueKind()
	if r.coercions[p.name][kind] {
		return nil
	}

	ok := false
	switch p.rangeKind {
	case rangeAny:
		ok = true
	case rangeLiteral:
		ok = kind != KindEntity
	case rangeString:
		ok = kind == KindString
	case rangeNumber:
		ok = kind == KindNumber
	case rangeBool:
		ok = kind == KindBool
	case rangeDate:
		ok = kind == KindDate || (kind == KindString && isDateString(v))
	case rangeEntity:
		ok = r.entityInRange(p, v)
	}
	if ok {
		return nil
	}
	return &RangeError{Class: entityType, Property: p.name, Range: r.rangeName(p), Got: describe(v)}
}

func (r *Registry) entityInRange(p *propNode, v Value) bool {
	ev, ok := v.(EntityValue)
	if !ok || v.ValueKind() != KindEntity {
		return false
	}
	ci, ok := r.classByName[ev.TypeName()]
	if !ok {
		return false
	}
	_, ok = r.classes[ci].ancestors[p.rangeClass]
	return ok
}

func (r *Registry) rangeName(p *propNode) string {
	if p.rangeKind == rangeEntity {
		return r.classes[p.rangeClass].name
	}
	if p.rangeURI == "" {
		return p.rangeKind.String()
	}
	return r.ns.Compact(p.rangeURI)
}

func isDateString(v Value) bool {
	s, ok := v.(fmt.Stringer)
	if !ok {
		return false
	}
	_, err := ParseISODate(s.String())
	return err == nil
}

func describe(v Value) string {
	if ev, ok := v.(EntityValue); ok && v.ValueKind() == KindEntity {
		return ev.TypeName()
	}
	return v.ValueKind().String()
}

// record counts the outcome of one validation.
func (r *Registry) record(err error) {
	switch e := err.(type) {
	case nil:
		r.metrics.IncAssignment(metrics.ResultAccepted)
		return
	case *DomainError:
		r.metrics.IncValidationError("domain")
		if e.Warn {
			r.metrics.IncAssignment(metrics.ResultWarned)
			return
		}
	case *RangeError:
		r.metrics.IncValidationError("range")
	case *UnknownPropertyError:
		r.metrics.IncValidationError("unknown_property")
	case *UnknownClassError:
		r.metrics.IncValidationError("unknown_class")
	}
	r.metrics.IncAssignment(metrics.ResultRejected)
}
