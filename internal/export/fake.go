package export

import (
	"context"
	"sync"
)

// MemoryUploader 保存在内存中的上传器，用于测试与本地运行
type MemoryUploader struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

// NewMemoryUploader 创建内存上传器
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{Objects: make(map[string][]byte)}
}

// Upload 记录对象内容
func (m *MemoryUploader) Upload(_ context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = append([]byte(nil), body...)
	return nil
}

// Keys 已上传的对象 key
func (m *MemoryUploader) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Objects))
	for k := range m.Objects {
		keys = append(keys, k)
	}
	return keys
}
