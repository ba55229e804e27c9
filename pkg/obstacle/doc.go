// Package obstacle persists the obstacles a vehicle operator records on a route.
//
// # Overview
//
// The whole collection is one ordered JSON array stored under a single key of a device
// key-value store:
//
//	obstacles = [{"id":"1718000000000","name":"Pothole","description":"Deep",
//	              "longitude":1.0,"latitude":2.0}, ...]
//
// The store only relies on whole-value Get and Set per key, so every mutation is a
// full-list read-modify-write. That is fine for a personal device holding a handful of
// records.
//
// # Operations
//
// List, Create, Update and Delete form the boundary used by presentation code. They never
// return errors: failures are logged and converted into an empty list or false.
// CreateObstacle, UpdateObstacle and DeleteObstacle are the error-returning forms they wrap,
// for callers that need the assigned ID or the failure cause.
//
// # Legacy data
//
// A stored single JSON object (instead of an array) is recovered as a one-element list.
// IDs written as JSON numbers are read back as their decimal string.
//
// # Concurrency
//
// Mutations through one Store are serialized. Separate Stores on a shared backend are
// last-write-wins on the full array.
//
// # Usage Example
//
//	store, err := obstacle.NewStore(obstacle.NewMemoryKV(), obstacle.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ok := store.Create(ctx, obstacle.Fields{Name: "Pothole", Description: "Deep"})
//	for _, o := range store.List(ctx) {
//		fmt.Println(o.ID, o.Name)
//	}
package obstacle
