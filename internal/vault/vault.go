// internal/vault/vault.go
//
// Vault indirection for the session secret.
//
// Context
// -------
// Operators may keep the session-signing secret out of the environment by
// setting it to a reference of the form `vault:<mount>/<path>#<key>`.
// Bootstrap resolves the reference through the HashiCorp Vault Go SDK and
// writes the plaintext back into the config store; the config layer itself
// never learns about Vault.  Resolution happens exactly once per process,
// so there is no token-renewal loop and no cache here.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"fmt"
	"os"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// refPrefix marks a config value as a Vault reference.
const refPrefix = "vault:"

// IsRef reports whether value uses the vault:<path>#<key> indirection.
func IsRef(value string) bool {
	return strings.HasPrefix(value, refPrefix)
}

// Resolve fetches the KV-v2 value a reference points at.  The reference
// must look like `vault:secret/dps/auth#session_secret`.
func Resolve(ctx context.Context, ref string) (string, error) {
	body := strings.TrimPrefix(ref, refPrefix)
	path, key, ok := strings.Cut(body, "#")
	if !ok || path == "" || key == "" {
		return "", fmt.Errorf("vault: malformed reference %q", ref)
	}

	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return "", fmt.Errorf("vault env cfg: %w", err)
	}

	cli, err := vault.NewClient(cfg)
	if err != nil {
		return "", fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		cli.SetToken(tok)
	}

	mount, rel := splitMount(path)
	sec, err := cli.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", path, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, path)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", path, key)
	}
	return sval, nil
}

func splitMount(p string) (mount, rel string) {
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}
