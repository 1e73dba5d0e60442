package content

import (
	"edu-dashboard-be/internal/pkg/logger"
)

const NoContentTitle = "No Content Available"

type Resolver struct {
	catalog Catalog
	logger  logger.ILogger
}

func NewResolver(catalog Catalog, log logger.ILogger) *Resolver {
	if catalog == nil {
		catalog = Catalog{}
	}
	return &Resolver{catalog: catalog, logger: log}
}

// StandardKey turns a class value into its catalog key, e.g. "10" -> "class10".
func StandardKey(standard string) string {
	return "class" + standard
}

// Resolve is total: unknown subject/class pairs produce an empty block.
// The returned topic slice is a copy.
func (r *Resolver) Resolve(subject, standard string) Block {
	key := StandardKey(standard)
	if classes, ok := r.catalog[subject]; ok {
		if b, ok := classes[key]; ok {
			return Block{Title: b.Title, Topics: append([]string{}, b.Topics...)}
		}
	}
	if r.logger != nil {
		r.logger.Warn("ContentResolver", "No content for subject/class", map[string]interface{}{
			"subject": subject,
			"class":   key,
		})
	}
	return Block{Title: NoContentTitle, Topics: []string{}}
}
