package sheet

import "fmt"

// NetworkError reports that the client was online, the origin fetch failed,
// and no cached payload could stand in.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s failed", e.URL)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NoCachedDataError reports that the client was offline and nothing usable
// was cached for the URL. UI copy for this case asks the user to reconnect.
type NoCachedDataError struct {
	URL string
}

func (e *NoCachedDataError) Error() string {
	return fmt.Sprintf("offline and no cached data for %s", e.URL)
}
