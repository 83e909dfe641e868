package domain

import (
	"context"
	"log/slog"
)

// MOIDProvider looks up an object's minimum orbit intersection distance with
// Earth's orbit, in astronomical units. A nil result with a nil error means
// the provider has no MOID for the object.
type MOIDProvider interface {
	LookupMOID(ctx context.Context, designation string) (*float64, error)
}

// EnrichWithMOID attempts to attach an Earth MOID to the record and re-derive
// its PHA flag. A nil provider or a lookup failure degrades gracefully: the
// record is returned with no MOID and the flag unset, and the failure is
// logged rather than propagated. MOID is advisory data; a broken SBDB
// endpoint must not fail the run.
func EnrichWithMOID(ctx context.Context, rec ApproachRecord, provider MOIDProvider, logger *slog.Logger) ApproachRecord {
	if provider == nil {
		return rec
	}

	moid, err := provider.LookupMOID(ctx, rec.Designation)
	if err != nil {
		logger.Warn("moid lookup failed",
			"designation", rec.Designation,
			"error", err,
		)
		return ApplyMOID(rec, nil)
	}
	return ApplyMOID(rec, moid)
}
