package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// 胁迫口令采用 argon2id 加盐哈希存储，核对时定时比较。
// 编码格式沿用 PHC 字符串：$argon2id$v=19$m=...,t=...,p=...$salt$hash

const (
	duressSaltLen = 16
	duressKeyLen  = 32
)

// HashParams argon2id 代价参数
type HashParams struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultHashParams 默认代价，约 64MB 内存
var DefaultHashParams = HashParams{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 2,
}

// HashDuressPassword 生成随机盐并编码 argon2id 哈希
func HashDuressPassword(password string, p HashParams) (string, error) {
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 {
		p = DefaultHashParams
	}

	salt := make([]byte, duressSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, duressKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// VerifyDuressPassword 以存储哈希中的参数重算并定时比较。
// 无论口令长短、哈希是否存在，调用方都应走完整个验证路径。
func VerifyDuressPassword(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var p HashParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, uint32(len(expected)))

	return subtle.ConstantTimeCompare(key, expected) == 1
}

// DummyDuressHash 返回一个固定口令的哈希，用于配置缺失时的等功耗验证，
// 使"未配置"与"口令错误"两条路径做等量计算。
func DummyDuressHash(p HashParams) string {
	encoded, err := HashDuressPassword("sentinel-dummy-duress-password", p)
	if err != nil {
		return ""
	}
	return encoded
}
