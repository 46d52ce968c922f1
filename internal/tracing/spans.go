package tracing

// Span attribute keys for resolution and archive tracing.
// These constants define the semantic conventions for span attributes
// across the codec, registry, and store subsystems.
const (
	// Codec attributes
	AttrTag         = "codec.tag"
	AttrLabel       = "codec.label"
	AttrCustomCount = "codec.custom_objects"
	AttrNested      = "codec.nested"

	// Registry attributes
	AttrEntries    = "registry.entries"
	AttrModeV2     = "registry.v2"
	AttrRebuilt    = "registry.rebuilt"
	AttrAliasCount = "registry.aliases"

	// Store attributes
	AttrConfigName = "store.config_name"
	AttrConfigID   = "store.config_id"
	AttrCacheHit   = "store.cache_hit"
	AttrRecords    = "store.records"
)

// Span names for consistent naming.
const (
	SpanSerialize   = "codec.serialize"
	SpanDeserialize = "codec.deserialize"
	SpanEnsure      = "registry.ensure"
	SpanStoreSave   = "store.save"
	SpanStoreGet    = "store.get"
	SpanStoreList   = "store.list"
	SpanStoreRemove = "store.remove"
)
