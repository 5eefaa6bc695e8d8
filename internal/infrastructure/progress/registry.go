package progress

import (
	"sync"

	"media-pipeline/internal/domain/dto"
)

// Registry upload kimliği -> güncel durum haritası. Tek yazar kuralı:
// bir entry'nin yaşamı boyunca sadece onu açan orkestrasyon yazar, poller'lar
// okur. Otomatik expiry yok; terminal statüden sonra Clear çağıranın işi.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]dto.ProgressEntry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]dto.ProgressEntry),
	}
}

func (r *Registry) Set(id string, entry dto.ProgressEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.UploadID = id
	r.entries[id] = entry
}

func (r *Registry) Get(id string) (dto.ProgressEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	return entry, ok
}

func (r *Registry) Clear(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Feed kanaldan gelen güncellemeleri entry'ye uygular. Orkestratör kanalı
// kapatana kadar çalışır; dönen kanal drain bitince kapanır. Transport
// callback'i ile registry arasındaki bağı bu kanal koparır.
func (r *Registry) Feed(id string, updates <-chan dto.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range updates {
			r.apply(id, u)
		}
	}()
	return done
}

func (r *Registry) apply(id string, u dto.ProgressUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.entries[id]
	entry.UploadID = id
	entry.Status = u.Status
	entry.Stage = u.Stage
	// Yüzde asla geri gitmez
	if u.Percentage > entry.Percentage {
		entry.Percentage = u.Percentage
	}
	if u.Error != "" {
		entry.Error = u.Error
	}
	if u.Result != nil {
		entry.Result = u.Result
	}
	r.entries[id] = entry
}
