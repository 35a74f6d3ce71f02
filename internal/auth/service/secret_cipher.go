package service

import (
	"context"

	"gocloud.dev/secrets"

	apperrors "github.com/allisson/docrest/internal/errors"

	// Register keeper provider drivers.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// keeperCipher implements SecretCipher on top of a gocloud secrets keeper.
type keeperCipher struct {
	keeper *secrets.Keeper
}

// OpenSecretCipher opens a SecretCipher for the configured keeper URI.
// Supports gcpkms://, awskms://, azurekeyvault://, hashivault:// and
// base64key:// URIs.
func OpenSecretCipher(ctx context.Context, keeperURI string) (SecretCipher, error) {
	keeper, err := secrets.OpenKeeper(ctx, keeperURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open secrets keeper")
	}
	return &keeperCipher{keeper: keeper}, nil
}

// Encrypt encrypts an API secret for storage.
func (k *keeperCipher) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	ciphertext, err := k.keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt secret")
	}
	return ciphertext, nil
}

// Close releases the underlying keeper.
func (k *keeperCipher) Close() error {
	return k.keeper.Close()
}

// Decrypt decrypts a stored API secret.
func (k *keeperCipher) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	plaintext, err := k.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt secret")
	}
	return plaintext, nil
}
