package tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	crypt "github.com/IvanChernomyrdin/go-recipe-api/internal/server/crypto"
)

func fastArgon2() crypt.Argon2Params {
	return crypt.Argon2Params{
		Time:      1,
		MemoryKiB: 32 * 1024,
		Threads:   1,
		KeyLen:    32,
		SaltLen:   16,
	}
}

// Хэширование и успешная проверка для обоих алгоритмов
func TestHashAndVerifyPassword_OK(t *testing.T) {
	hashers := map[string]crypt.Hasher{
		"argon2id": crypt.Argon2Hasher{Params: fastArgon2()},
		"bcrypt":   crypt.BcryptHasher{Cost: 4},
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("testpass123")
			require.NoError(t, err)

			ok, err := crypt.VerifyPassword("testpass123", hash)
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = crypt.VerifyPassword("wrong-password", hash)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestArgon2Hasher_Format(t *testing.T) {
	hash, err := crypt.Argon2Hasher{Params: fastArgon2()}.Hash("secret")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "argon2id$v=19$m=32768,t=1,p=1$"))
}

// Нулевые параметры заменяются дефолтными
func TestArgon2Hasher_ZeroParamsUseDefaults(t *testing.T) {
	hash, err := crypt.Argon2Hasher{}.Hash("secret")
	require.NoError(t, err)

	ok, err := crypt.VerifyPassword("secret", hash)
	require.NoError(t, err)
	require.True(t, ok)
}

// Пустой пароль
func TestHash_EmptyPassword(t *testing.T) {
	_, err := crypt.Argon2Hasher{Params: fastArgon2()}.Hash("")
	require.ErrorIs(t, err, crypt.ErrEmptyPassword)

	_, err = crypt.BcryptHasher{Cost: 4}.Hash("   ")
	require.ErrorIs(t, err, crypt.ErrEmptyPassword)
}

// Битый формат хэша
func TestVerifyPassword_InvalidFormat(t *testing.T) {
	_, err := crypt.VerifyPassword("password", "not-a-valid-hash")
	require.ErrorIs(t, err, crypt.ErrInvalidHashFormat)

	_, err = crypt.VerifyPassword("password", "argon2id$v=19$broken")
	require.ErrorIs(t, err, crypt.ErrInvalidHashFormat)

	_, err = crypt.VerifyPassword("password", "argon2id$v=19$m=x$salt$hash")
	require.Error(t, err)
}

func TestNewHasher(t *testing.T) {
	h, err := crypt.NewHasher("argon2id", fastArgon2(), 0)
	require.NoError(t, err)
	require.IsType(t, crypt.Argon2Hasher{}, h)

	h, err = crypt.NewHasher("bcrypt", crypt.Argon2Params{}, 4)
	require.NoError(t, err)
	require.IsType(t, crypt.BcryptHasher{}, h)

	_, err = crypt.NewHasher("md5", crypt.Argon2Params{}, 0)
	require.ErrorIs(t, err, crypt.ErrUnknownHasher)
}
