package mock

// Models is the static catalog served by /v1/models. Creation timestamps are
// the well-known OpenAI values; nothing validates request models against this
// list.
var Models = []Model{
	{ID: "gpt-4", Object: "model", Created: 1677610602, OwnedBy: "openai"},
	{ID: "gpt-3.5-turbo", Object: "model", Created: 1677610603, OwnedBy: "openai"},
	{ID: "text-embedding-ada-002", Object: "model", Created: 1677610604, OwnedBy: "openai"},
	{ID: "gpt-4-turbo", Object: "model", Created: 1700538000, OwnedBy: "openai"},
}

// LookupModel finds a catalog entry by id.
func LookupModel(id string) (Model, bool) {
	for _, m := range Models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}
