package model

import (
	"encoding/json"
	"io"
	"os"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// SaveRecord はフィット結果を JSON ファイルに保存する
//
// パラメータ:
//   - record: 保存するフィット結果
//   - filename: 保存先のファイルパス
//
// 使用例:
//
//	rec, _ := res.Record()
//	err := model.SaveRecord(rec, "fit.json")
func SaveRecord(record *FitRecord, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}
	defer file.Close()

	return WriteRecord(record, file)
}

// LoadRecord はJSON ファイルからフィット結果を読み込む
func LoadRecord(filename string) (*FitRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	return ReadRecord(file)
}

// WriteRecord はフィット結果を検証してからio.Writerに書き出す
func WriteRecord(record *FitRecord, w io.Writer) error {
	if err := record.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return errors.Wrap(err, "failed to encode fit record")
	}
	return nil
}

// ReadRecord はio.Readerからフィット結果を読み込み、検証する
func ReadRecord(r io.Reader) (*FitRecord, error) {
	var record FitRecord
	if err := json.NewDecoder(r).Decode(&record); err != nil {
		return nil, errors.Wrap(err, "failed to decode fit record")
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return &record, nil
}
