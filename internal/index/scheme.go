package index

var (
	bProducts = []byte("products") // seoUrl -> product json
	bOrder    = []byte("order")    // seq -> seoUrl, catalog order
	bIdxID    = []byte("idx_id")   // id -> seoUrl
	bIdxCat   = []byte("idx_cat")  // category -> sub-bucket (seq -> seoUrl)
	bMeta     = []byte("meta")     // build metadata

	kFingerprint = []byte("fingerprint")
	kBuiltAt     = []byte("built_at")
)
