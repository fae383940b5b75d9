package downloader

// jsToken returns the jsToken query parameter sent with share listing calls.
// Terabox derives the real value in browser JavaScript as part of its
// anti-bot scheme; that derivation is intentionally not reproduced here, so a
// placeholder is sent instead. The upstream may reject or degrade listing
// requests carrying it at any time, and the listing call simply surfaces
// whatever the upstream answers.
func jsToken(surl string) string {
	return "undefined"
}
