package gateway

import "encoding/json"

type Kind string

const (
	KindSuccess         Kind = "success"
	KindUnauthenticated Kind = "unauthenticated"
	KindNotFound        Kind = "not_found"
	KindError           Kind = "error"
)

// Outcome is the classified result of one Send call. Exactly one kind is
// produced per call; raw transport failures never cross this boundary.
type Outcome struct {
	Kind    Kind
	Payload json.RawMessage // valid JSON, set only for KindSuccess
	Status  int             // HTTP status, 0 when no response arrived
	Detail  string          // response body text for non-success kinds
}

func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

// Err maps a non-success outcome onto the client error taxonomy.
func (o Outcome) Err() error {
	switch o.Kind {
	case KindSuccess:
		return nil
	case KindUnauthenticated:
		return ErrAuthRequired
	case KindNotFound:
		return ErrNotFound
	default:
		return &TransportError{Status: o.Status, Detail: o.Detail}
	}
}

// Decode unmarshals a success payload into out. Non-success outcomes return
// their taxonomy error, so callers can decode unconditionally.
func (o Outcome) Decode(out any) error {
	if err := o.Err(); err != nil {
		return err
	}
	if out == nil || len(o.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(o.Payload, out)
}
