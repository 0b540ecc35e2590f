// Package embedded 提供内置数据文件的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包保存该文件系统，让资源管理器和配置加载可以读取内置的
// sprite-frames 文档、图集和默认纹理配置。
//
// 使用前必须调用 Init() 初始化；未初始化时所有路径都视为不存在，
// 调用方回退到磁盘读取。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Prefix 内置文件路径必须使用的前缀
const Prefix = "data/"

var (
	dataFS      fs.FS
	initialized bool
)

// ErrNotInitialized 在 Init 之前访问时返回
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

// Init 设置内置文件系统
// 必须在 main() 开始时、任何资源加载之前调用
// 参数 data 的根目录下应包含 "data" 目录（即 //go:embed data 的结果）
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 把路径转换为 embed.FS 使用的形式，并检查前缀
func normalize(path string) (string, error) {
	if !initialized {
		return "", ErrNotInitialized
	}

	// 标准化路径分隔符为正斜杠（embed.FS 使用正斜杠）
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")

	if !strings.HasPrefix(path, Prefix) {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with '%s')", path, Prefix)
	}
	return path, nil
}

// Open 打开内置文件
// 路径必须以 "data/" 开头
func Open(path string) (fs.File, error) {
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return dataFS.Open(p)
}

// ReadFile 读取内置文件内容
// 路径必须以 "data/" 开头
func ReadFile(path string) ([]byte, error) {
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, p)
}

// Exists 检查文件是否存在于内置文件系统中
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 在内置文件系统中匹配文件
// 路径模式必须以 "data/" 开头
func Glob(pattern string) ([]string, error) {
	p, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(dataFS, p)
}
