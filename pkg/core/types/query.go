//
//  Copyright © Stackport Inc. All rights reserved.
//

package types

import (
	"encoding/json"
	"errors"
)

// AnyQuery allows a resolve query to be submitted as either an unparsed JSON string, or an
// unmarshalled map.  This allows the caller to chose between convenience and efficiency.
type AnyQuery interface{}

// Query is a structure representing the input for ownership resolution: the
// caller's identity (or a bearer token to derive it from) and the set of
// applications to resolve against.
type Query map[string]interface{}

// UnmarshalQuery parses a JSON string, if required, into a decoded Query map.
// If the input is already an unmarshalled map, it's just passed through
func UnmarshalQuery(input AnyQuery) (Query, error) {

	switch input := input.(type) {
	case string:
		query := make(Query)
		// Now unmarshal into the map.
		err := json.Unmarshal([]byte(input), &query)
		if err != nil {
			return nil, err
		}

		return query, nil
	case map[string]interface{}:
		return input, nil
	default:
		return nil, errors.New("invalid type")
	}
}
