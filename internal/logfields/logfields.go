package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyTask       = "task"
	KeyRepo       = "repository"
	KeyRound      = "round"
	KeyNonce      = "nonce"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyAttempt    = "attempt"
	KeyStatus     = "status"
	KeyStatusCode = "status_code"
	KeyMethod     = "method"
	KeyRemoteAddr = "remote_addr"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyCommit     = "commit"
	KeyFileCount  = "file_count"
	KeyModel      = "model"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Task(t string) slog.Attr         { return slog.String(KeyTask, t) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Round(n int) slog.Attr           { return slog.Int(KeyRound, n) }
func Nonce(n string) slog.Attr        { return slog.String(KeyNonce, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func StatusCode(code int) slog.Attr   { return slog.Int(KeyStatusCode, code) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Commit(sha string) slog.Attr     { return slog.String(KeyCommit, sha) }
func FileCount(n int) slog.Attr       { return slog.Int(KeyFileCount, n) }
func Model(m string) slog.Attr        { return slog.String(KeyModel, m) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
