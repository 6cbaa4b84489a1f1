package performance

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/delivery_2025.yaml
var defaultData []byte

// datasetsFile корневая структура файла с таблицами
type datasetsFile struct {
	Datasets []Dataset `yaml:"datasets"`
}

// DefaultDatasets возвращает встроенные таблицы за 2025 год (外协 и 外购)
func DefaultDatasets() ([]Dataset, error) {
	datasets, err := DecodeDatasets(bytes.NewReader(defaultData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode embedded datasets: %w", err)
	}
	return datasets, nil
}

// LoadDatasets читает таблицы из YAML-файла; пустой путь означает встроенные данные
func LoadDatasets(path string) ([]Dataset, error) {
	if path == "" {
		return DefaultDatasets()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open datasets file: %w", err)
	}
	defer file.Close()

	datasets, err := DecodeDatasets(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return datasets, nil
}

// DecodeDatasets разбирает YAML и валидирует каждую таблицу
func DecodeDatasets(r io.Reader) ([]Dataset, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var doc datasetsFile
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: document is empty", ErrInvalidDataset)
		}
		return nil, fmt.Errorf("failed to parse datasets: %w", err)
	}

	if len(doc.Datasets) == 0 {
		return nil, fmt.Errorf("%w: no datasets defined", ErrInvalidDataset)
	}

	sheets := make(map[string]struct{}, len(doc.Datasets))
	for i := range doc.Datasets {
		if err := doc.Datasets[i].Validate(); err != nil {
			return nil, err
		}
		name := doc.Datasets[i].SheetName
		if _, ok := sheets[name]; ok {
			return nil, fmt.Errorf("%w: duplicate sheet name %q", ErrInvalidDataset, name)
		}
		sheets[name] = struct{}{}
	}

	return doc.Datasets, nil
}

// EncodeDatasets пишет таблицы в YAML в том же формате, что читает DecodeDatasets
func EncodeDatasets(w io.Writer, datasets []Dataset) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(datasetsFile{Datasets: datasets}); err != nil {
		encoder.Close()
		return fmt.Errorf("failed to encode datasets: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush datasets: %w", err)
	}
	return nil
}
