package paragraph

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

var (
	// ErrDecode 匹配所有输入解码错误。
	ErrDecode = errors.New("输入解码失败")
	// ErrUnknownEncoding 表示无法识别的编码名称。
	ErrUnknownEncoding = errors.New("未知的输入编码")
)

// DecodeError 表示按指定编码转换后的输入中存在无法转换的字节。
type DecodeError struct {
	Encoding string
	// Offset 为转换结果中第一个问题字符的字节偏移。
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("按 %s 转换输入失败：偏移 %d 处存在无法转换的字节", e.Encoding, e.Offset)
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Decode 读取全部输入。encoding 为空时原样返回（UTF-8 校验留给 Split）；
// 否则按 IANA 名称查找编码并转换为 UTF-8，出现无法转换的字节即报错。
func Decode(r io.Reader, encoding string) (string, error) {
	encoding = strings.TrimSpace(encoding)
	if encoding == "" {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("读取输入失败: %w", err)
		}
		return string(data), nil
	}

	enc, err := ianaindex.IANA.Encoding(encoding)
	if err != nil || enc == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownEncoding, encoding)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("读取输入失败: %w", err)
	}
	return decodeStrict(raw, enc, encoding)
}

// decodeStrict 逐个编码单元转换 raw。转换器为无法转换的字节输出 U+FFFD，
// 而输入本身编码的 U+FFFD 是合法字符，两者按对应的源字节区分。
func decodeStrict(raw []byte, enc encoding.Encoding, name string) (string, error) {
	dec := enc.NewDecoder()
	marker := replacementBytes(enc)
	out := make([]byte, 0, len(raw))
	buf := make([]byte, 64)
	pos, n := 0, 1
	for pos < len(raw) {
		end := min(pos+n, len(raw))
		atEOF := end == len(raw)
		nDst, nSrc, err := dec.Transform(buf, raw[pos:end], atEOF)
		if nSrc > 0 {
			seg := buf[:nDst]
			if i := bytes.IndexRune(seg, utf8.RuneError); i >= 0 && (marker == nil || !bytes.Equal(raw[pos:pos+nSrc], marker)) {
				return "", &DecodeError{Encoding: name, Offset: len(out) + i}
			}
			out = append(out, seg...)
			pos += nSrc
			n = 1
			continue
		}
		switch {
		case errors.Is(err, transform.ErrShortDst):
			buf = make([]byte, 2*len(buf))
		case err == nil && atEOF:
			// 转换器在末尾没有消费任何字节
			pos = len(raw)
		case err == nil, errors.Is(err, transform.ErrShortSrc) && !atEOF:
			n++
		default:
			return "", &DecodeError{Encoding: name, Offset: len(out)}
		}
	}
	return string(out), nil
}

// replacementBytes 返回 U+FFFD 在 enc 中的编码；无法表示时返回 nil。
// 编码器可能在开头写入字节序标记，取两个字符与一个字符编码结果之差。
func replacementBytes(enc encoding.Encoding) []byte {
	one, err := enc.NewEncoder().Bytes([]byte("\uFFFD"))
	if err != nil {
		return nil
	}
	two, err := enc.NewEncoder().Bytes([]byte("\uFFFD\uFFFD"))
	if err != nil || len(two) <= len(one) {
		return nil
	}
	return two[len(one):]
}
