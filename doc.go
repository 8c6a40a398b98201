/*
Package resource provides declarative HTTP resources: a model type, a url template and a set of
actions (get, query, save, update, patch, remove) are declared once and invoked as calls that
return a result immediately and fill it in place when the response arrives.

Identical cacheable calls, GET or HEAD expecting JSON or text, share one network call while in
flight and replay the stored response until it turns stale.

	users, err := resource.New("users", model.NewRecord, resource.Options{
		URL:           "http://api/users/:pk/",
		ParamDefaults: map[string]interface{}{"pk": "@id"},
		UseCache:      true,
	})
	if err != nil {
		return err
	}
	res, err := users.Get(ctx, request.Params{"pk": 1})
	if err != nil {
		return err
	}
	user, err := res.Await(ctx)

Stores are pluggable: in memory (default), bounded LRU and Redis are provided by the store package.
The transport defaults to the traced client of the client/http package.
*/
package resource
