package codable

// Package codable provides:
//
// - Read-only decoding containers over raw trees (JSON, YAML or in-memory)
// - Three-tier decoding: strict, IfExists (absent is fine) and IfPresent (absent or null is fine)
// - A stable error model via *Error (code, path, kinds) with errors.Is sentinels
// - Encoding containers that build trees from Go values, structs included
// - Type-keyed delegates and self-describing Decodable/Encodable types
// - Streaming reading via Source with duplicate-key/depth/size enforcement
//
// Design policy:
// - Keep only public APIs in the root package; put token handling under internal/.
// - Place readers under source/, ready-made delegates under codec/, and the CLI under cmd/codable.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	tree, err := codable.ReadJSON(data)
//	c := codable.NewDecoder(nil).Container(tree)
//	name, err := c.Field("name").DecodeString()
//	nick, err := c.Field("nickname").DecodeStringIfPresent()
//	tags, err := codable.DecodeSliceOf[string](c.Field("tags"))
//
//	out, err := codable.Marshal(person)
