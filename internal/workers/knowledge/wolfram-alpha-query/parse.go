package wolframalphaquery

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
)

var (
	errNoRootElement       = errors.New("no element found")
	errMultipleRoots       = errors.New("junk after document element")
	errTextOutsideDocument = errors.New("text outside document element")
)

// extractFirstPodPlaintext scans the whole document and returns the text of
// the first plaintext child of the first pod below the root element. The
// text is what precedes any child element of plaintext. found is false when
// there is no pod, the pod has no plaintext child, or that child is empty.
// Any well-formedness error anywhere in the document is returned.
func extractFirstPodPlaintext(body []byte) (text string, found bool, err error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = true

	var (
		depth      int
		rootSeen   bool
		podDepth   = -1
		done       bool
		inText     bool
		buf        bytes.Buffer
		plainFound bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", false, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if rootSeen {
					return "", false, errMultipleRoots
				}
				rootSeen = true
			}
			depth++
			if inText {
				// plaintext has a child; its own text ends here
				inText = false
			}
			if done {
				continue
			}
			switch {
			case podDepth < 0 && depth > 1 && t.Name.Local == "pod":
				podDepth = depth
			case podDepth > 0 && !plainFound && depth == podDepth+1 && t.Name.Local == "plaintext":
				plainFound = true
				inText = true
			}

		case xml.EndElement:
			if podDepth > 0 && !done {
				if plainFound && depth == podDepth+1 && t.Name.Local == "plaintext" {
					done = true
				}
				if depth == podDepth {
					done = true
				}
			}
			inText = false
			depth--

		case xml.CharData:
			if depth == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return "", false, errTextOutsideDocument
				}
				continue
			}
			if inText {
				buf.Write(t)
			}
		}
	}

	if !rootSeen {
		return "", false, errNoRootElement
	}
	if !plainFound || buf.Len() == 0 {
		return "", false, nil
	}
	return buf.String(), true, nil
}
