package models

import (
	"encoding/json"
	"errors"
	"strconv"
)

// HotelRef and UserRef are tagged unions: a booking's hotel/user field is
// either a bare identifier or the expanded record, depending on which
// endpoint produced it. Callers must check Expanded() instead of assuming a
// shape.

type HotelRef struct {
	ID    uint
	Hotel *Hotel
}

func HotelRefID(id uint) HotelRef           { return HotelRef{ID: id} }
func HotelRefObject(h Hotel) HotelRef       { return HotelRef{ID: h.ID, Hotel: &h} }
func (r HotelRef) Expanded() (*Hotel, bool) { return r.Hotel, r.Hotel != nil }

func (r HotelRef) MarshalJSON() ([]byte, error) {
	if r.Hotel != nil {
		return json.Marshal(r.Hotel)
	}
	return json.Marshal(r.ID)
}

func (r *HotelRef) UnmarshalJSON(data []byte) error {
	id, obj, err := decodeRef(data)
	if err != nil {
		return err
	}
	if obj == nil {
		*r = HotelRef{ID: id}
		return nil
	}
	var h Hotel
	if err := json.Unmarshal(obj, &h); err != nil {
		return err
	}
	*r = HotelRef{ID: h.ID, Hotel: &h}
	return nil
}

type UserRef struct {
	ID   uint
	User *User
}

func UserRefID(id uint) UserRef           { return UserRef{ID: id} }
func UserRefObject(u User) UserRef        { return UserRef{ID: u.ID, User: &u} }
func (r UserRef) Expanded() (*User, bool) { return r.User, r.User != nil }

func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}
	return json.Marshal(r.ID)
}

func (r *UserRef) UnmarshalJSON(data []byte) error {
	id, obj, err := decodeRef(data)
	if err != nil {
		return err
	}
	if obj == nil {
		*r = UserRef{ID: id}
		return nil
	}
	var u User
	if err := json.Unmarshal(obj, &u); err != nil {
		return err
	}
	*r = UserRef{ID: u.ID, User: &u}
	return nil
}

// decodeRef sorts raw JSON into a bare id (number or numeric string) or an
// object payload. Returns obj == nil when the value was an id.
func decodeRef(data []byte) (uint, json.RawMessage, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, nil, err
	}
	switch v := probe.(type) {
	case float64:
		if v < 0 {
			return 0, nil, errors.New("reference id must not be negative")
		}
		return uint(v), nil, nil
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, nil, errors.New("reference id must be numeric")
		}
		return uint(id), nil, nil
	case map[string]any:
		return 0, json.RawMessage(data), nil
	case nil:
		return 0, nil, nil
	default:
		return 0, nil, errors.New("reference must be an id or an object")
	}
}
