package registry

// ResolveLevel returns the declaration of level for d. It never runs an
// analyzer: the caller inspects the returned binding and acts on it.
func ResolveLevel(d *Descriptor, level int) (*LevelDescriptor, error) {
	if ld, ok := d.Levels[level]; ok && ld != nil {
		return ld, nil
	}
	return nil, &UnknownLevelError{
		Descriptor: d.Name,
		Level:      level,
		Declared:   d.DeclaredLevels(),
	}
}

// DefaultLevel is the level served when a caller does not ask for one: the
// structure level when declared, otherwise the lowest declared level.
func DefaultLevel(d *Descriptor) int {
	if _, ok := d.Levels[LevelStructure]; ok {
		return LevelStructure
	}
	if levels := d.DeclaredLevels(); len(levels) > 0 {
		return levels[0]
	}
	return LevelMetadata
}
