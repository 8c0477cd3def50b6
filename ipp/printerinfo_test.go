/* ippd - a library for building IPP printer servers
 *
 * PrinterInfo tests
 */

package ipp

import "testing"

func TestPrinterInfoToAttributesAdvertisesBothSupportedVersions(t *testing.T) {
	p := NewPrinterInfo("ipp://localhost/ipp/print", "test")
	attrs := p.ToAttributes(PrinterStateIdle, nil, 0)

	versions := GetKeywords(attrs, "ipp-versions-supported")
	if len(versions) != 2 || versions[0] != "1.1" || versions[1] != "2.0" {
		t.Errorf("ipp-versions-supported: got %v, want [1.1 2.0]", versions)
	}
}
