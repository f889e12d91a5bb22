// file: utils/flag.go
package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateFlag 生成随机 Flag，管理员建题未提供密钥时使用
func GenerateFlag() string {
	part1 := strings.Replace(uuid.New().String(), "-", "", -1)[:12]
	part2 := strings.Replace(uuid.New().String(), "-", "", -1)[:12]
	return fmt.Sprintf("flag{%s-%s}", part1, part2)
}
